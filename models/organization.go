// models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Organization struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Timezone  string             `bson:"timezone,omitempty" json:"timezone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
