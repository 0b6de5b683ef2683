package repository

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"authify/backend/internal/account/domain"
)

// AccountsCollection is the MongoDB collection holding account documents.
const AccountsCollection = "accounts"

type slotDoc struct {
	CodeHash  string    `bson:"code_hash"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type accountDoc struct {
	ID              string    `bson:"_id"`
	Email           string    `bson:"email"`
	Name            string    `bson:"name"`
	PasswordHash    string    `bson:"password_hash"`
	Verified        bool      `bson:"verified"`
	VerificationOTP *slotDoc  `bson:"verification_otp"`
	ResetOTP        *slotDoc  `bson:"reset_otp"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

// MongoRepository stores accounts as documents keyed by account ID.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository returns an account repository over db.accounts.
// Call EnsureIndexes once at startup to create the unique email index.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(AccountsCollection)}
}

// EnsureIndexes creates the unique index on email.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("accounts_email_unique"),
	})
	if err != nil {
		return oops.Code("ACCOUNT_INDEX_FAILED").With("collection", AccountsCollection).Wrap(err)
	}
	return nil
}

// GetByID returns the account for id, or nil if not found.
func (r *MongoRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "get account by id")
}

// GetByEmail returns the account with the given email, or nil if not found.
func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email}, "get account by email")
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M, op string) (*domain.Account, error) {
	var doc accountDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_FAILED").With("operation", op).Wrap(err)
	}
	return docToDomain(&doc), nil
}

// ExistsByEmail reports whether an account holds email.
func (r *MongoRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, oops.Code("ACCOUNT_EXISTS_FAILED").With("email", email).Wrap(err)
	}
	return n > 0, nil
}

// Upsert writes a with a single upserting update. Email and created_at are only written on
// insert; verified uses $max so a stored true is never replaced by false.
func (r *MongoRepository) Upsert(ctx context.Context, a *domain.Account) error {
	doc := domainToDoc(a)
	update := bson.M{
		"$set": bson.M{
			"name":             doc.Name,
			"password_hash":    doc.PasswordHash,
			"verification_otp": doc.VerificationOTP,
			"reset_otp":        doc.ResetOTP,
			"updated_at":       doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"email":      doc.Email,
			"created_at": doc.CreatedAt,
		},
		"$max": bson.M{"verified": doc.Verified},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return oops.Code("ACCOUNT_EMAIL_EXISTS").With("email", a.Email).Wrap(domain.ErrEmailExists)
		}
		return oops.Code("ACCOUNT_UPSERT_FAILED").
			With("operation", "upsert account").
			With("id", a.ID).
			Wrap(err)
	}
	return nil
}

func domainToDoc(a *domain.Account) *accountDoc {
	doc := &accountDoc{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		Verified:     a.Verified,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if s := a.VerificationOTP; s != nil {
		doc.VerificationOTP = &slotDoc{CodeHash: s.CodeHash, ExpiresAt: s.ExpiresAt}
	}
	if s := a.ResetOTP; s != nil {
		doc.ResetOTP = &slotDoc{CodeHash: s.CodeHash, ExpiresAt: s.ExpiresAt}
	}
	return doc
}

func docToDomain(doc *accountDoc) *domain.Account {
	a := &domain.Account{
		ID:           doc.ID,
		Email:        doc.Email,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		Verified:     doc.Verified,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
	if s := doc.VerificationOTP; s != nil && s.CodeHash != "" {
		a.VerificationOTP = &domain.Slot{CodeHash: s.CodeHash, ExpiresAt: s.ExpiresAt.UTC()}
	}
	if s := doc.ResetOTP; s != nil && s.CodeHash != "" {
		a.ResetOTP = &domain.Slot{CodeHash: s.CodeHash, ExpiresAt: s.ExpiresAt.UTC()}
	}
	return a
}

var _ Repository = (*MongoRepository)(nil)
