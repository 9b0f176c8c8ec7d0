package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/onboarding-system/internal/core/domain"
	"github.com/99minutos/onboarding-system/internal/core/ports"
)

const usersCollection = "users"

// DatabaseSource hands out the current database handle.
type DatabaseSource interface {
	Database() (*mongo.Database, error)
}

// UserRepository implements ports.UserRepository. Tasks are embedded in the
// user document, so every write is a single-document atomic update.
type UserRepository struct {
	source DatabaseSource
}

func NewUserRepository(source DatabaseSource) *UserRepository {
	return &UserRepository{source: source}
}

// withoutHash excludes the password hash from reads that never need it.
var withoutHash = bson.M{"passwordHash": 0}

func (r *UserRepository) coll() (*mongo.Collection, error) {
	db, err := r.source.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(usersCollection), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	coll, err := r.coll()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *user
	doc.ID = primitive.NewObjectID()
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &doc, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}, nil)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, withoutHash)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, projection bson.M) (*domain.User, error) {
	coll, err := r.coll()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var u domain.User
	if err := coll.FindOne(ctx, filter, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fields ports.ProfileFields, now time.Time) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	u, err := r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": profileSet(fields, now)})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

// UpdateTaskStatus uses the positional operator so the match on the task id
// and the write happen in one atomic update.
func (r *UserRepository) UpdateTaskStatus(ctx context.Context, id, taskID string, status domain.TaskStatus, now time.Time) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	tid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	u, err := r.findOneAndUpdate(ctx, taskFilter(oid, tid), taskStatusUpdate(status, now))
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return u, err
	}

	// Nothing matched: tell a missing user apart from a missing task.
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrTaskNotFound
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.User, error) {
	coll, err := r.coll()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutHash)

	var u domain.User
	if err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}

// EnsureIndexes creates the unique email index backing the uniqueness
// invariant.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.coll()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

// profileSet builds the $set document for a partial profile update. Only
// non-nil fields are written.
func profileSet(f ports.ProfileFields, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	add := func(key string, v *string) {
		if v != nil {
			set["profile."+key] = *v
		}
	}
	add("firstName", f.FirstName)
	add("lastName", f.LastName)
	add("position", f.Position)
	add("department", f.Department)
	add("phone", f.Phone)
	return set
}

func taskFilter(userID, taskID primitive.ObjectID) bson.M {
	return bson.M{"_id": userID, "onboardingTasks._id": taskID}
}

func taskStatusUpdate(status domain.TaskStatus, now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"onboardingTasks.$.status": string(status),
		"updatedAt":                now,
	}}
}
