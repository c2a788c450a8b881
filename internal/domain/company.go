package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCompanyPin protects user registration under a company when the
// registering company did not choose its own PIN
const DefaultCompanyPin = "1234"

// Company types accepted at registration
const (
	CompanyTypeShipper    = "shipper"
	CompanyTypeForwarder  = "forwarder"
	CompanyTypeAirline    = "airline"
	CompanyTypeHandler    = "handler"
	CompanyTypeCustoms    = "customs"
	CompanyTypeTrucking   = "trucking"
	CompanyTypeWarehouse  = "warehouse"
	CompanyTypeSalesagent = "salesagent"
)

// Company is a participant registered on this server
type Company struct {
	ID                              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CompanyID                       string             `bson:"companyId" json:"companyId"`
	CompanyName                     string             `bson:"companyName" json:"companyName"`
	CompanyType                     string             `bson:"companyType" json:"companyType"`
	ContactName                     string             `bson:"contactName" json:"contactName"`
	ContactEmail                    string             `bson:"contactEmail" json:"contactEmail"`
	ServerInformationEndpoint       string             `bson:"serverInformationEndpoint,omitempty" json:"serverInformationEndpoint,omitempty"`
	KeyForServerInformationEndpoint string             `bson:"keyForServerInformationEndpoint,omitempty" json:"keyForServerInformationEndpoint,omitempty"`
	Topics                          []string           `bson:"topics,omitempty" json:"topics,omitempty"`
	CompanyImage                    string             `bson:"companyImage,omitempty" json:"companyImage,omitempty"`
	CompanyDescription              string             `bson:"companyDescription,omitempty" json:"companyDescription,omitempty"`
	CompanyPin                      string             `bson:"companyPin,omitempty" json:"-"`
	Active                          bool               `bson:"active" json:"active"`
	CreatedAt                       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Notifiable reports whether the company can be asked for subscription
// details: it must expose an information endpoint and the key to access it.
func (c *Company) Notifiable() bool {
	return c.ServerInformationEndpoint != "" && c.KeyForServerInformationEndpoint != ""
}

// Pin returns the company's registration PIN, falling back to the default
func (c *Company) Pin() string {
	if c.CompanyPin == "" {
		return DefaultCompanyPin
	}
	return c.CompanyPin
}
