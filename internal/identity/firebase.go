package identity

import (
	"context"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/shopsphere/storefront/internal/config"
	appErrors "github.com/shopsphere/storefront/internal/errors"
	"github.com/shopsphere/storefront/internal/models"
)

// RoleLookup reads the persisted role record for a uid. Implemented by the
// Firestore role repository; a missing record resolves as (nil, nil).
type RoleLookup interface {
	Get(ctx context.Context, uid string) (*models.UserRoleRecord, error)
}

// FirebaseProvider verifies Firebase ID tokens and joins the uid against the
// role collection. Role is looked up, never inferred from token claims alone:
// privileged actions need server confirmation.
type FirebaseProvider struct {
	auth  *fbauth.Client
	roles RoleLookup
}

func NewFirebaseProvider(ctx context.Context, cfg *config.Config, roles RoleLookup) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, err
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	return &FirebaseProvider{auth: authClient, roles: roles}, nil
}

// NewFirebaseProviderWithClient is used by tests and by callers that already
// hold an auth client.
func NewFirebaseProviderWithClient(auth *fbauth.Client, roles RoleLookup) *FirebaseProvider {
	return &FirebaseProvider{auth: auth, roles: roles}
}

func (p *FirebaseProvider) Verify(ctx context.Context, idToken string) (*Identity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, appErrors.UnauthorizedError("ID token is required")
	}

	token, err := p.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, appErrors.UnauthorizedError("Invalid or expired ID token").WithError(err)
	}

	uid := strings.TrimSpace(token.UID)
	if uid == "" {
		return nil, appErrors.UnauthorizedError("Token carries no uid")
	}

	email := ""
	if raw, ok := token.Claims["email"]; ok {
		if e, ok := raw.(string); ok {
			email = strings.TrimSpace(e)
		}
	}

	// Every signed-in customer is a buyer until a role record says otherwise.
	role := models.RoleBuyer

	record, err := p.roles.Get(ctx, uid)
	if err != nil {
		return nil, appErrors.RemoteUnavailableError("Failed to read role record").WithError(err)
	}

	if record != nil && record.Role.Valid() {
		role = record.Role
	}

	return &Identity{UID: uid, Email: email, Role: role}, nil
}
