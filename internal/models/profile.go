package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Profile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID primitive.ObjectID `bson:"user" json:"-"`

	// populated by the store on read ($lookup into users), never persisted;
	// null in JSON when the owning account no longer exists
	User *UserSummary `bson:"owner,omitempty" json:"user"`

	Company        string `bson:"company,omitempty" json:"company,omitempty"`
	Website        string `bson:"website,omitempty" json:"website,omitempty"`
	Location       string `bson:"location,omitempty" json:"location,omitempty"`
	Bio            string `bson:"bio,omitempty" json:"bio,omitempty"`
	Status         string `bson:"status" json:"status"`
	GitHubUsername string `bson:"githubusername,omitempty" json:"githubusername,omitempty"`

	Skills []string `bson:"skills" json:"skills"`
	Social Social   `bson:"social" json:"social"`

	// most recent first by insertion
	Experience []Experience `bson:"experience" json:"experience"`
	Education  []Education  `bson:"education" json:"education"`

	Version int64     `bson:"version" json:"-"`
	Date    time.Time `bson:"date" json:"date"`
}

type Social struct {
	YouTube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

type Experience struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	From        time.Time          `bson:"from" json:"from"`
	To          *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool               `bson:"current" json:"current"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

type Education struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	School       string             `bson:"school" json:"school"`
	Degree       string             `bson:"degree" json:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy" json:"fieldofstudy"`
	From         time.Time          `bson:"from" json:"from"`
	To           *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool               `bson:"current" json:"current"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

func (e Experience) EntryID() primitive.ObjectID { return e.ID }
func (e Education) EntryID() primitive.ObjectID  { return e.ID }

// ProfileFields is a partial update set. Nil pointers and a nil Skills slice
// are left untouched by the store; Social is always written.
type ProfileFields struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string
	Social         Social
}

// Apply merges f into p the same way the store applies it on update.
func (f ProfileFields) Apply(p *Profile) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Company, f.Company)
	set(&p.Website, f.Website)
	set(&p.Location, f.Location)
	set(&p.Bio, f.Bio)
	set(&p.Status, f.Status)
	set(&p.GitHubUsername, f.GitHubUsername)
	if f.Skills != nil {
		p.Skills = append([]string(nil), f.Skills...)
	}
	p.Social = f.Social
}
