package repository

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/shopsphere/storefront/internal/models"
)

type RoleRepository interface {
	// Get returns (nil, nil) when the uid has no role record yet.
	Get(ctx context.Context, uid string) (*models.UserRoleRecord, error)
	Upsert(ctx context.Context, record *models.UserRoleRecord) error
}

type roleRepository struct {
	client *firestore.Client
}

func NewRoleRepo(client *firestore.Client) RoleRepository {
	return &roleRepository{client: client}
}

func (r *roleRepository) col() *firestore.CollectionRef {
	return r.client.Collection("roles")
}

func (r *roleRepository) Get(ctx context.Context, uid string) (*models.UserRoleRecord, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, fmt.Errorf("role repository: uid is empty")
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	snap, err := r.col().Doc(uid).Get(dbCtx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read role record: %w", err)
	}

	var record models.UserRoleRecord
	if err := snap.DataTo(&record); err != nil {
		return nil, fmt.Errorf("failed to decode role record: %w", err)
	}

	record.UID = uid

	return &record, nil
}

func (r *roleRepository) Upsert(ctx context.Context, record *models.UserRoleRecord) error {
	if record == nil || strings.TrimSpace(record.UID) == "" {
		return fmt.Errorf("role repository: record uid is empty")
	}

	dbCtx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.col().Doc(record.UID).Set(dbCtx, record)
	if err != nil {
		return fmt.Errorf("failed to write role record: %w", err)
	}

	return nil
}
