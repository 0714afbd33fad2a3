package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Experience struct {
	ID          bson.ObjectID `json:"_id" bson:"_id"`
	Title       string        `json:"title" bson:"title"`
	Company     string        `json:"company" bson:"company"`
	Location    string        `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time     `json:"from" bson:"from"`
	To          *time.Time    `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool          `json:"current" bson:"current"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	ID           bson.ObjectID `json:"_id" bson:"_id"`
	School       string        `json:"school" bson:"school"`
	Degree       string        `json:"degree" bson:"degree"`
	FieldOfStudy string        `json:"fieldofstudy,omitempty" bson:"fieldofstudy,omitempty"`
	From         time.Time     `json:"from" bson:"from"`
	To           *time.Time    `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool          `json:"current" bson:"current"`
	Description  string        `json:"description,omitempty" bson:"description,omitempty"`
}

type Social struct {
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

type Profile struct {
	ID             bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	User           bson.ObjectID `json:"user" bson:"user"`
	Company        string        `json:"company,omitempty" bson:"company,omitempty"`
	Website        string        `json:"website,omitempty" bson:"website,omitempty"`
	Location       string        `json:"location,omitempty" bson:"location,omitempty"`
	Status         string        `json:"status" bson:"status"`
	Skills         []string      `json:"skills" bson:"skills"`
	Bio            string        `json:"bio,omitempty" bson:"bio,omitempty"`
	GithubUsername string        `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Experience     []Experience  `json:"experience" bson:"experience"`
	Education      []Education   `json:"education" bson:"education"`
	Social         Social        `json:"social" bson:"social"`
	Date           time.Time     `json:"date" bson:"date"`
}

func (p *Profile) OwnerID() bson.ObjectID {
	return p.User
}

func (p *Profile) HasExperience(id bson.ObjectID) bool {
	for _, exp := range p.Experience {
		if exp.ID == id {
			return true
		}
	}
	return false
}

func (p *Profile) HasEducation(id bson.ObjectID) bool {
	for _, edu := range p.Education {
		if edu.ID == id {
			return true
		}
	}
	return false
}

// ProfileFields carries the writable top-level fields of an upsert. Empty
// strings are left untouched on an existing profile; Social is replaced as a whole.
type ProfileFields struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         []string
	Social         Social
}

// ProfileView is a profile with its owner's public fields in place of the
// owner id.
type ProfileView struct {
	ID             bson.ObjectID `json:"_id"`
	User           UserSummary   `json:"user"`
	Company        string        `json:"company,omitempty"`
	Website        string        `json:"website,omitempty"`
	Location       string        `json:"location,omitempty"`
	Status         string        `json:"status"`
	Skills         []string      `json:"skills"`
	Bio            string        `json:"bio,omitempty"`
	GithubUsername string        `json:"githubusername,omitempty"`
	Experience     []Experience  `json:"experience"`
	Education      []Education   `json:"education"`
	Social         Social        `json:"social"`
	Date           time.Time     `json:"date"`
}

func NewProfileView(p *Profile, owner UserSummary) ProfileView {
	return ProfileView{
		ID:             p.ID,
		User:           owner,
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Status:         p.Status,
		Skills:         p.Skills,
		Bio:            p.Bio,
		GithubUsername: p.GithubUsername,
		Experience:     p.Experience,
		Education:      p.Education,
		Social:         p.Social,
		Date:           p.Date,
	}
}
