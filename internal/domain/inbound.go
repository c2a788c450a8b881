package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InboundRecord is a logistics object pushed to this server by a publisher
// it subscribed to
type InboundRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Lo        Document           `bson:"lo" json:"lo"`
	Topic     string             `bson:"topic" json:"topic"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
