package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ProfileApp/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// userDocument — представление пользователя в коллекции users
type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Email      string             `bson:"email"`
	HashedPass string             `bson:"hashedPass"`
	Name       string             `bson:"name,omitempty"`
	Surname    string             `bson:"surname,omitempty"`
	Birthday   string             `bson:"birthday,omitempty"`
	Gender     string             `bson:"gender,omitempty"`
	Img        string             `bson:"img,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt  time.Time          `bson:"updatedAt,omitempty"`
}

func (d *userDocument) toDomain() *domain.User {
	u := &domain.User{
		Email:      d.Email,
		HashedPass: d.HashedPass,
		Name:       d.Name,
		Surname:    d.Surname,
		Birthday:   d.Birthday,
		Gender:     d.Gender,
		Img:        d.Img,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if !d.ID.IsZero() {
		u.ID = d.ID.Hex()
	}
	return u
}

// MongoUserStorage реализует ports.UserStorage поверх MongoDB
type MongoUserStorage struct {
	coll   *mongo.Collection
	logger *slog.Logger
	now    func() time.Time
}

func NewMongoUserStorage(db *mongo.Database, logger *slog.Logger) *MongoUserStorage {
	return &MongoUserStorage{
		coll:   db.Collection(usersCollection),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// CreateUser вставляет новый документ; уникальность email не проверяется
func (s *MongoUserStorage) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	start := time.Now()

	now := s.now()
	doc := userDocument{
		ID:         primitive.NewObjectID(),
		Email:      user.Email,
		HashedPass: user.HashedPass,
		Name:       user.Name,
		Surname:    user.Surname,
		Birthday:   user.Birthday,
		Gender:     user.Gender,
		Img:        user.Img,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		s.logger.Error("failed to insert user", "email", user.Email, "error", err)
		return nil, fmt.Errorf("%w: insert user: %w", domain.ErrStorage, err)
	}

	s.logger.Info("user created",
		"id", doc.ID.Hex(),
		"email", doc.Email,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return doc.toDomain(), nil
}

// ListUsers возвращает все документы коллекции
func (s *MongoUserStorage) ListUsers(ctx context.Context) ([]domain.User, error) {
	start := time.Now()

	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("%w: find users: %w", domain.ErrStorage, err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		s.logger.Error("failed to decode users", "error", err)
		return nil, fmt.Errorf("%w: decode users: %w", domain.ErrStorage, err)
	}

	users := make([]domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toDomain())
	}

	s.logger.Info("listed users",
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

// FindUserByEmail возвращает первый документ с данным email (только email и hashedPass)
func (s *MongoUserStorage) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDocument
	opts := options.FindOne().SetProjection(bson.D{{Key: "email", Value: 1}, {Key: "hashedPass", Value: 1}})

	err := s.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Warn("user not found by email", "email", email)
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to find user by email", "email", email, "error", err)
		return nil, fmt.Errorf("%w: find user: %w", domain.ErrStorage, err)
	}

	return doc.toDomain(), nil
}

// UpdateUserByEmail применяет $set к первому документу с данным email и возвращает его новое состояние
func (s *MongoUserStorage) UpdateUserByEmail(ctx context.Context, email string, update domain.UserUpdate) (*domain.User, error) {
	start := time.Now()

	set := bson.D{}
	if update.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *update.Name})
	}
	if update.Img != nil {
		set = append(set, bson.E{Key: "img", Value: *update.Img})
	}
	if update.HashedPass != nil {
		set = append(set, bson.E{Key: "hashedPass", Value: *update.HashedPass})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: s.now()})

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err := s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Warn("user to update not found", "email", email)
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to update user", "email", email, "error", err)
		return nil, fmt.Errorf("%w: update user: %w", domain.ErrStorage, err)
	}

	s.logger.Info("user updated",
		"id", doc.ID.Hex(),
		"email", email,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return doc.toDomain(), nil
}
