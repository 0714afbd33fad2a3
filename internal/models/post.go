package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Like struct {
	ID   bson.ObjectID `json:"_id" bson:"_id"`
	User bson.ObjectID `json:"user" bson:"user"`
}

type Comment struct {
	ID     bson.ObjectID `json:"_id" bson:"_id"`
	User   bson.ObjectID `json:"user" bson:"user"`
	Text   string        `json:"text" bson:"text"`
	Name   string        `json:"name" bson:"name"`
	Avatar string        `json:"avatar" bson:"avatar"`
	Date   time.Time     `json:"date" bson:"date"`
}

func (c *Comment) AuthorID() bson.ObjectID {
	return c.User
}

// Post keeps a snapshot of the author's name and avatar taken at creation.
type Post struct {
	ID       bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	User     bson.ObjectID `json:"user" bson:"user"`
	Text     string        `json:"text" bson:"text"`
	Name     string        `json:"name" bson:"name"`
	Avatar   string        `json:"avatar" bson:"avatar"`
	Like     []Like        `json:"like" bson:"like"`
	Comments []Comment     `json:"comments" bson:"comments"`
	Date     time.Time     `json:"date" bson:"date"`
}

func (p *Post) OwnerID() bson.ObjectID {
	return p.User
}

func (p *Post) LikedBy(userID bson.ObjectID) bool {
	for _, like := range p.Like {
		if like.User == userID {
			return true
		}
	}
	return false
}

func (p *Post) FindComment(id bson.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}

// Normalize replaces nil sub-collections so they serialize as empty arrays.
func (p *Post) Normalize() {
	if p.Like == nil {
		p.Like = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// CommentTarget pairs a comment with the post that embeds it.
type CommentTarget struct {
	Post    *Post
	Comment *Comment
}

func (t CommentTarget) OwnerID() bson.ObjectID {
	return t.Post.User
}

func (t CommentTarget) AuthorID() bson.ObjectID {
	return t.Comment.User
}
