package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account registered under a company
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CompanyID    string             `bson:"companyId" json:"companyId"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
