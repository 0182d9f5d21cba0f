package models

import "time"

// Customer is a registry entry used to populate selection lists. The pair
// (village, name) is the natural key; there is no global customer ID.
type Customer struct {
	Village string    `bson:"village" json:"village"`
	Name    string    `bson:"customer_name" json:"name"`
	AddedOn time.Time `bson:"added_on" json:"added_on"`
}
