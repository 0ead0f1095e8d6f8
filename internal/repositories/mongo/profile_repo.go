package mongo

import (
	"context"
	"time"

	"github.com/yoockh/devconnect/internal/models"
	"github.com/yoockh/devconnect/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	profilesCollection = "profiles"
	usersCollection    = "users"
)

// ProfileRepository is keyed by owning user. Writes on an existing document
// are version-checked and return utils.ErrConflict when the version moved.
type ProfileRepository interface {
	FindByOwner(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	FindAll(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, p *models.Profile) error
	Update(ctx context.Context, userID primitive.ObjectID, version int64, f models.ProfileFields) error
	SaveEntries(ctx context.Context, p *models.Profile) error
	DeleteByOwner(ctx context.Context, userID primitive.ObjectID) error
}

type profileRepo struct {
	col *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) ProfileRepository {
	return &profileRepo{col: db.Collection(profilesCollection)}
}

// withOwner joins the owning user's display name and avatar.
func withOwner(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$owner", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{"owner.password": 0, "owner.email": 0, "owner.date": 0}}},
	}
}

func (r *profileRepo) FindByOwner(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	cur, err := r.col.Aggregate(ctx, withOwner(bson.M{"user": userID}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, err
		}
		return nil, utils.ErrNotFound
	}
	var p models.Profile
	if err := cur.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) FindAll(ctx context.Context) ([]models.Profile, error) {
	cur, err := r.col.Aggregate(ctx, withOwner(bson.M{}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Profile{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *profileRepo) Create(ctx context.Context, p *models.Profile) error {
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []models.Experience{}
	}
	if p.Education == nil {
		p.Education = []models.Education{}
	}
	owner := p.User
	p.User = nil
	res, err := r.col.InsertOne(ctx, p)
	p.User = owner
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrConflict
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

func fieldsToSet(f models.ProfileFields) bson.M {
	set := bson.M{"social": f.Social}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	put("company", f.Company)
	put("website", f.Website)
	put("location", f.Location)
	put("bio", f.Bio)
	put("status", f.Status)
	put("githubusername", f.GitHubUsername)
	if f.Skills != nil {
		set["skills"] = f.Skills
	}
	return set
}

func (r *profileRepo) Update(ctx context.Context, userID primitive.ObjectID, version int64, f models.ProfileFields) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"user": userID, "version": version},
		bson.M{
			"$set": fieldsToSet(f),
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrConflict
	}
	return nil
}

func (r *profileRepo) SaveEntries(ctx context.Context, p *models.Profile) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"user": p.UserID, "version": p.Version},
		bson.M{
			"$set": bson.M{
				"experience": p.Experience,
				"education":  p.Education,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrConflict
	}
	p.Version++
	return nil
}

func (r *profileRepo) DeleteByOwner(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"user": userID})
	return err
}
