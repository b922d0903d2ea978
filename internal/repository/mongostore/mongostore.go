package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Virenishere/backend-assignment-portal/internal/model"
	"github.com/Virenishere/backend-assignment-portal/internal/repository"
)

const (
	usersCollection       = "users"
	adminsCollection      = "admins"
	assignmentsCollection = "assignments"
)

type principalDoc struct {
	ID           string    `bson:"_id"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"createdAt"`
}

type assignmentDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	AdminID   string    `bson:"admin"`
	Task      string    `bson:"task"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"createdAt"`
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ repository.Store = (*Store)(nil)

func NewStore(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

// EnsureIndexes creates the unique email indexes and the admin listing index. Safe to call on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for _, name := range []string{usersCollection, adminsCollection} {
		_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("email index on %s: %w", name, err)
		}
	}
	_, err := s.db.Collection(assignmentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "admin", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("admin index on assignments: %w", err)
	}
	return nil
}

func (s *Store) principals(kind model.Kind) *mongo.Collection {
	if kind == model.KindAdmin {
		return s.db.Collection(adminsCollection)
	}
	return s.db.Collection(usersCollection)
}

func (s *Store) CreatePrincipal(ctx context.Context, p model.Principal) error {
	_, err := s.principals(p.Kind).InsertOne(ctx, principalDoc{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateEmail
	}
	return err
}

func (s *Store) GetPrincipalByEmail(ctx context.Context, kind model.Kind, email string) (model.Principal, error) {
	return s.findPrincipal(ctx, kind, bson.M{"email": email})
}

func (s *Store) GetPrincipalByID(ctx context.Context, kind model.Kind, id string) (model.Principal, error) {
	return s.findPrincipal(ctx, kind, bson.M{"_id": id})
}

func (s *Store) findPrincipal(ctx context.Context, kind model.Kind, filter bson.M) (model.Principal, error) {
	var doc principalDoc
	err := s.principals(kind).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Principal{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Principal{}, err
	}
	return doc.toModel(kind), nil
}

func (s *Store) ListPrincipals(ctx context.Context, kind model.Kind) ([]model.Principal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return s.listPrincipals(ctx, kind, bson.M{}, opts)
}

func (s *Store) FindPrincipals(ctx context.Context, kind model.Kind, ids []string) (map[string]model.Principal, error) {
	ids = repository.UniqueIDs(ids)
	out := make(map[string]model.Principal, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := s.listPrincipals(ctx, kind, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (s *Store) listPrincipals(ctx context.Context, kind model.Kind, filter bson.M, opts *options.FindOptions) ([]model.Principal, error) {
	cursor, err := s.principals(kind).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []principalDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Principal, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toModel(kind))
	}
	return out, nil
}

func (s *Store) CreateAssignment(ctx context.Context, a model.Assignment) error {
	_, err := s.db.Collection(assignmentsCollection).InsertOne(ctx, assignmentDoc{
		ID:        a.ID,
		UserID:    a.UserID,
		AdminID:   a.AdminID,
		Task:      a.Task,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
	})
	return err
}

func (s *Store) GetAssignment(ctx context.Context, id string) (model.Assignment, error) {
	var doc assignmentDoc
	err := s.db.Collection(assignmentsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Assignment{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Assignment{}, err
	}
	return doc.toModel(), nil
}

func (s *Store) ListAssignments(ctx context.Context, filter repository.AssignmentFilter) ([]model.Assignment, error) {
	query := bson.M{}
	if filter.AdminID != "" {
		query["admin"] = filter.AdminID
	}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.db.Collection(assignmentsCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var docs []assignmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Assignment, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toModel())
	}
	return out, nil
}

func (s *Store) TransitionAssignment(ctx context.Context, id string, from, to model.Status) (model.Assignment, error) {
	var doc assignmentDoc
	err := s.db.Collection(assignmentsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toModel(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return model.Assignment{}, err
	}
	current, getErr := s.GetAssignment(ctx, id)
	if getErr != nil {
		return model.Assignment{}, getErr
	}
	return current, repository.ErrStatusConflict
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (d principalDoc) toModel(kind model.Kind) model.Principal {
	return model.Principal{
		ID:           d.ID,
		Kind:         kind,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

func (d assignmentDoc) toModel() model.Assignment {
	return model.Assignment{
		ID:        d.ID,
		UserID:    d.UserID,
		AdminID:   d.AdminID,
		Task:      d.Task,
		Status:    model.Status(d.Status),
		CreatedAt: d.CreatedAt,
	}
}
