package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ragrids/internal/model"
)

const (
	adminsCollection = "admins"
	usersCollection  = "users"
)

// EnsureMongoIndexes creates the unique email index on both principal
// collections. Uniqueness is scoped per collection.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}
	for _, name := range []string{adminsCollection, usersCollection} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, index); err != nil {
			return fmt.Errorf("create %s email index: %w", name, err)
		}
	}
	return nil
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateEmail
	default:
		return err
	}
}

type mongoAdminRepository struct {
	coll *mongo.Collection
}

// NewMongoAdminRepository builds a MongoDB-backed admin repository.
func NewMongoAdminRepository(db *mongo.Database) AdminRepository {
	return &mongoAdminRepository{coll: db.Collection(adminsCollection)}
}

func (r *mongoAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	now := time.Now().UTC()
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	admin.CreatedAt, admin.UpdatedAt = now, now
	_, err := r.coll.InsertOne(ctx, admin)
	return translateMongoError(err)
}

func (r *mongoAdminRepository) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoAdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoAdminRepository) findOne(ctx context.Context, filter bson.M) (*model.Admin, error) {
	var admin model.Admin
	if err := r.coll.FindOne(ctx, filter).Decode(&admin); err != nil {
		return nil, translateMongoError(err)
	}
	return &admin, nil
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository builds a MongoDB-backed user repository. Files are
// embedded in the user document.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	user.EnsureFiles()
	_, err := r.coll.InsertOne(ctx, user)
	return translateMongoError(err)
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	user.EnsureFiles()
	return &user, nil
}

func (r *mongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].EnsureFiles()
	}
	return users, nil
}

func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": profileSet(patch)})
}

func (r *mongoUserRepository) AppendFile(ctx context.Context, id string, file model.FileRef) (*model.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$push": bson.M{"files": file},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoUserRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	user.EnsureFiles()
	return &user, nil
}

// profileSet converts a patch into a $set document using the bson field names.
func profileSet(patch model.ProfilePatch) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Mobile != nil {
		set["mobile"] = *patch.Mobile
	}
	if patch.CompanyName != nil {
		set["companyName"] = *patch.CompanyName
	}
	if patch.District != nil {
		set["district"] = *patch.District
	}
	return set
}
