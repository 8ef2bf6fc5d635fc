package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/rateexplorer/pkg/log"
	"github.com/raterudder/rateexplorer/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ratePlansCollection = "rate_plans"

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Each plan is a document in the rate_plans collection keyed by its
// label.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

var _ Database = (*FirestoreProvider)(nil)

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// an empty project id is detected from the environment
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func validateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("label cannot be empty")
	}
	if strings.Contains(label, "/") {
		return fmt.Errorf("label cannot contain '/': %s", label)
	}
	return nil
}

func (f *FirestoreProvider) planDoc(label string) (*firestore.DocumentRef, error) {
	if err := validateLabel(label); err != nil {
		return nil, err
	}
	return f.client.Collection(ratePlansCollection).Doc(label), nil
}

// decodePlan reads the plan json stored on the document.
func decodePlan(ctx context.Context, doc *firestore.DocumentSnapshot) (*types.RatePlan, error) {
	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "rate plan doc missing json", slog.String("label", doc.Ref.ID), slog.Any("err", err))
		return nil, fmt.Errorf("rate plan %s missing 'json' field: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "rate plan doc json not string", slog.String("label", doc.Ref.ID))
		return nil, fmt.Errorf("rate plan %s 'json' field is not a string", doc.Ref.ID)
	}

	var plan types.RatePlan
	if err := json.Unmarshal([]byte(jsonStr), &plan); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal rate plan", slog.String("label", doc.Ref.ID), slog.Any("err", err))
		return nil, fmt.Errorf("failed to unmarshal rate plan %s: %w", doc.Ref.ID, err)
	}
	return &plan, nil
}

// GetRatePlan retrieves a plan from the "rate_plans" collection.
func (f *FirestoreProvider) GetRatePlan(ctx context.Context, label string) (*types.RatePlan, error) {
	ref, err := f.planDoc(label)
	if err != nil {
		return nil, err
	}
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrRatePlanNotFound, label)
		}
		return nil, fmt.Errorf("failed to get rate plan %s: %w", label, err)
	}
	return decodePlan(ctx, doc)
}

// ListRatePlans retrieves plans ordered by label, optionally only those of a
// single utility.
func (f *FirestoreProvider) ListRatePlans(ctx context.Context, utility string) ([]*types.RatePlan, error) {
	q := f.client.Collection(ratePlansCollection).Query
	if utility != "" {
		q = q.Where("utility", "==", utility)
	}
	iter := q.OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var plans []*types.RatePlan
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating rate plans: %w", err)
		}
		plan, err := decodePlan(ctx, doc)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// UpsertRatePlan stores the plan as a JSON string alongside the fields it's
// queried by.
func (f *FirestoreProvider) UpsertRatePlan(ctx context.Context, plan *types.RatePlan) error {
	ref, err := f.planDoc(plan.Label)
	if err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal rate plan: %w", err)
	}
	_, err = ref.Set(ctx, map[string]interface{}{
		"json":    string(jsonBytes),
		"utility": plan.Utility,
		"eiaid":   plan.EIAID,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert rate plan %s: %w", plan.Label, err)
	}
	return nil
}

// DeleteRatePlan removes the plan. Deleting a missing plan is not an error.
func (f *FirestoreProvider) DeleteRatePlan(ctx context.Context, label string) error {
	ref, err := f.planDoc(label)
	if err != nil {
		return err
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete rate plan %s: %w", label, err)
	}
	return nil
}
