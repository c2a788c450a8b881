package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Topics a logistics object can belong to
const (
	TopicAirwaybill    = "Airwaybill"
	TopicHousemanifest = "Housemanifest"
	TopicHousewaybill  = "Housewaybill"
	TopicBooking       = "Booking"
)

// SupportedTopics lists every logistics object type this server exchanges
var SupportedTopics = []string{
	TopicAirwaybill,
	TopicHousemanifest,
	TopicHousewaybill,
	TopicBooking,
}

// Domain errors
var (
	ErrTypeMissing             = errors.New("logistics object is required to contain a @type field")
	ErrLogisticsObjectNotFound = errors.New("logistics object not found")
	ErrCompanyNotFound         = errors.New("company not found")
	ErrCompanyExists           = errors.New("company already exists")
	ErrUserExists              = errors.New("user already exists")
)

// Document is the JSON-LD content of a logistics object
type Document map[string]any

// Type returns the @type field of the document, if present
func (d Document) Type() string {
	if t, ok := d["@type"].(string); ok {
		return t
	}
	return ""
}

// ID returns the @id field of the document, if present
func (d Document) ID() string {
	if id, ok := d["@id"].(string); ok {
		return id
	}
	return ""
}

// LogisticsObject is a stored logistics object owned by a company
type LogisticsObject struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	LoID      string             `bson:"loId" json:"loId"`
	CompanyID string             `bson:"companyId" json:"companyId"`
	Type      string             `bson:"type" json:"type"`
	URL       string             `bson:"url" json:"url"`
	Content   Document           `bson:"logisticsObject" json:"logisticsObject"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Identity is the resolved identity of a logistics object
type Identity struct {
	LoID string
	URL  string
}

// ResolveIdentity determines the canonical id and URL for a document.
// A caller-supplied @id wins; otherwise a fresh UUID is minted and the
// URL is derived from the server's public base URL.
func ResolveIdentity(doc Document, baseURL, companyID string) (Identity, error) {
	if doc.Type() == "" {
		return Identity{}, ErrTypeMissing
	}

	if callerID := doc.ID(); callerID != "" {
		return Identity{
			LoID: lastPathSegment(callerID),
			URL:  callerID,
		}, nil
	}

	loID := uuid.New().String()
	return Identity{
		LoID: loID,
		URL:  fmt.Sprintf("%s/companies/%s/los/%s", baseURL, companyID, loID),
	}, nil
}

// NewLogisticsObject builds a logistics object from a document, resolving its
// identity and stamping the canonical URL into the content's @id.
func NewLogisticsObject(doc Document, baseURL, companyID string) (*LogisticsObject, error) {
	identity, err := ResolveIdentity(doc, baseURL, companyID)
	if err != nil {
		return nil, err
	}

	doc["@id"] = identity.URL

	now := time.Now().UTC()
	return &LogisticsObject{
		LoID:      identity.LoID,
		CompanyID: companyID,
		Type:      doc.Type(),
		URL:       identity.URL,
		Content:   doc,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func lastPathSegment(url string) string {
	pieces := strings.Split(url, "/")
	return pieces[len(pieces)-1]
}
