// internal/app/store/identity/identitystore.go

// Package identitystore owns the flows that bind a login identity to a
// User: first-login provisioning, email/password registration, and
// password verification. The provisioning flows write five documents
// (user, account, workspace, member, current-workspace pointer) and run
// under one transaction so a new identity either fully exists or not at
// all.
package identitystore

import (
	"context"

	accountstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/accounts"
	memberstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/members"
	rolestore "github.com/rabindra-basnet/team-project-saas/internal/app/store/roles"
	userstore "github.com/rabindra-basnet/team-project-saas/internal/app/store/users"
	workspacestore "github.com/rabindra-basnet/team-project-saas/internal/app/store/workspaces"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/normalize"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/txn"
	"github.com/rabindra-basnet/team-project-saas/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost used across the app for password hashes.
const bcryptCost = 12

type Store struct {
	db    *mongo.Database
	users *mongo.Collection
	log   *zap.Logger

	accounts *accountstore.Store
	roles    *rolestore.Store
	userDocs *userstore.Store
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:       db,
		users:    db.Collection("users"),
		log:      logger,
		accounts: accountstore.New(db),
		roles:    rolestore.New(db),
		userDocs: userstore.New(db),
	}
}

// ExternalIdentity is the resolved tuple a federated provider hands us
// after its handshake.
type ExternalIdentity struct {
	Provider   string
	ProviderID string
	Name       string
	Email      string
	Picture    string
}

// LoginOrCreate resolves an external identity to a User, provisioning the
// user on first sight: User, Account, a personal Workspace, an OWNER
// member record, and the current-workspace pointer are created in one
// transaction. A later login with the same email resolves the existing
// user and performs zero writes.
//
// Identities are unified by email: a Google login whose email was already
// registered with a password resolves to that same User without writing a
// second Account, so the stored provider record stays whichever one came
// first. Linking is not gated on email verification here.
func (s *Store) LoginOrCreate(ctx context.Context, id ExternalIdentity) (models.User, error) {
	var user models.User

	err := txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		err := s.users.FindOne(ctx, bson.M{"email": normalize.Email(id.Email)}).Decode(&user)
		if err == nil {
			s.log.Info("login resolved existing user",
				zap.String("user_id", user.ID.Hex()),
				zap.String("provider", id.Provider))
			return nil
		}
		if err != mongo.ErrNoDocuments {
			return err
		}

		user, err = s.provision(ctx, id.Name, id.Email, "", id.Picture, id.Provider, id.ProviderID)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return user.OmitPassword(), nil
}

// Register creates a user for the email/password path. The same five
// writes as LoginOrCreate run in one transaction; an already-registered
// email fails with Conflict and persists nothing.
func (s *Store) Register(ctx context.Context, name, email, password string) (userID, workspaceID primitive.ObjectID, err error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}

	var user models.User
	err = txn.WithTransaction(ctx, s.db.Client(), func(ctx context.Context) error {
		count, err := s.users.CountDocuments(ctx, bson.M{"email": normalize.Email(email)})
		if err != nil {
			return err
		}
		if count > 0 {
			s.log.Warn("registration attempt with existing email")
			return apperror.Conflict("Email already exists")
		}

		user, err = s.provision(ctx, name, email, string(hash), "", models.ProviderEmail, normalize.Email(email))
		return err
	})
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return user.ID, *user.CurrentWorkspace, nil
}

// provision performs the five-write creation sequence. It must run inside
// a transaction context.
func (s *Store) provision(ctx context.Context, name, email, passwordHash, picture, provider, providerID string) (models.User, error) {
	user := userstore.NewDoc(name, email, passwordHash, picture)
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return models.User{}, err
	}
	s.log.Info("user created", zap.String("user_id", user.ID.Hex()))

	account := accountstore.NewDoc(user.ID, provider, providerID)
	if _, err := s.db.Collection("accounts").InsertOne(ctx, account); err != nil {
		return models.User{}, err
	}

	ws := workspacestore.NewDoc("My Workspace", "Workspace created for "+user.Name, user.ID)
	if _, err := s.db.Collection("workspaces").InsertOne(ctx, ws); err != nil {
		return models.User{}, err
	}

	ownerRole, err := s.roles.GetByName(ctx, models.RoleOwner)
	if err != nil {
		if err == rolestore.ErrNotFound {
			return models.User{}, apperror.NotFound("Owner role not found")
		}
		return models.User{}, err
	}

	member := memberstore.NewDoc(user.ID, ws.ID, ownerRole.ID)
	if _, err := s.db.Collection("members").InsertOne(ctx, member); err != nil {
		return models.User{}, err
	}

	if err := s.userDocs.SetCurrentWorkspace(ctx, user.ID, &ws.ID); err != nil {
		return models.User{}, err
	}
	user.CurrentWorkspace = &ws.ID

	s.log.Info("provisioned new identity",
		zap.String("user_id", user.ID.Hex()),
		zap.String("workspace_id", ws.ID.Hex()),
		zap.String("provider", provider))
	return user, nil
}

// Verify checks an email/password pair against the stored hash. The flow
// is read-only: Account by (provider "email", normalized email), then the
// owning User, then a constant-time hash comparison. The returned user has
// its password hash stripped.
func (s *Store) Verify(ctx context.Context, email, password string) (models.User, error) {
	account, err := s.accounts.GetByProvider(ctx, models.ProviderEmail, normalize.Email(email))
	if err != nil {
		if err == accountstore.ErrNotFound {
			return models.User{}, apperror.NotFound("Invalid email or password")
		}
		return models.User{}, err
	}

	user, err := s.userDocs.GetByID(ctx, account.UserID)
	if err != nil {
		if err == userstore.ErrNotFound {
			return models.User{}, apperror.NotFound("User not found for the given account")
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.log.Warn("invalid password attempt", zap.String("user_id", user.ID.Hex()))
		return models.User{}, apperror.Unauthorized("Invalid email or password")
	}

	return user.OmitPassword(), nil
}
