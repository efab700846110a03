package auth

import "activity-platform/participation/internal/models/entities"

// Claims is what the request layer extracts from a bearer token before the
// engine is invoked: who is calling and on which subscription tier.
type Claims struct {
	UserID            string
	Email             string
	SubscriptionLevel entities.SubscriptionLevel
}
