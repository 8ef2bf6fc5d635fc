package main

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/raterudder/rateexplorer/pkg/types"
)

func dollars(f float64) string {
	return fmt.Sprintf("$%.2f", f)
}

// renderBills writes a table with one row per plan, in the order given.
func renderBills(w io.Writer, bills []types.PlanBill) error {
	td := pterm.TableData{
		{"Plan", "Utility", "kWh", "Peak kW", "Fixed", "Energy", "Demand", "Minimum", "Total"},
	}
	for _, pb := range bills {
		name := pb.Label
		if pb.Name != "" {
			name = fmt.Sprintf("%s (%s)", pb.Name, pb.Label)
		}
		row := []string{name, pb.Utility, "", "", "", "", "", "", ""}
		if u := pb.Bill.Usage; u != nil {
			row[2] = fmt.Sprintf("%.1f", u.KWh)
			row[3] = fmt.Sprintf("%.2f", u.PeakKW)
		}
		if c := pb.Bill.Cost; c != nil {
			row[4] = dollars(c.FixedCharge)
			row[5] = dollars(c.EnergyCharge)
			row[6] = dollars(c.DemandCharge + c.FlatDemandCharge + c.CoincidentDemandCharge)
			row[7] = dollars(c.MinChargeAdjustment)
			row[8] = dollars(c.Total)
		}
		td = append(td, row)
	}

	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(td).
		Srender()
	if err != nil {
		return fmt.Errorf("error rendering table: %w", err)
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
