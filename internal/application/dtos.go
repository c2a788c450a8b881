package application

import (
	"github.com/iol-platform/logistics-service/internal/domain"
)

// LogisticsObjectView is the projection returned when listing logistics objects
type LogisticsObjectView struct {
	LoID            string          `json:"loId"`
	LogisticsObject domain.Document `json:"logisticsObject"`
	Type            string          `json:"type"`
	URL             string          `json:"url"`
}

// NewLogisticsObjectView builds the list projection of a logistics object
func NewLogisticsObjectView(lo *domain.LogisticsObject) LogisticsObjectView {
	return LogisticsObjectView{
		LoID:            lo.LoID,
		LogisticsObject: lo.Content,
		Type:            lo.Type,
		URL:             lo.URL,
	}
}

// CompanySummary is the projection returned when listing companies
type CompanySummary struct {
	CompanyName string `json:"companyName"`
	CompanyID   string `json:"companyId"`
	Endpoint    string `json:"endpoint"`
}

// CompanyDetails is the projection returned for a single company
type CompanyDetails struct {
	CompanyName                     string   `json:"companyName"`
	ContactName                     string   `json:"contactName"`
	ContactEmail                    string   `json:"contactEmail"`
	CompanyType                     string   `json:"companyType"`
	ServerInformationEndpoint       string   `json:"serverInformationEndpoint"`
	KeyForServerInformationEndpoint string   `json:"keyForServerInformationEndpoint"`
	Topics                          []string `json:"topics"`
	CompanyImage                    string   `json:"companyImage"`
	CompanyDescription              string   `json:"companyDescription"`
}

// RegisterCompanyCommand carries a company registration request
type RegisterCompanyCommand struct {
	CompanyName                     string   `json:"companyName" binding:"required"`
	CompanyID                       string   `json:"companyId" binding:"required,company_id"`
	CompanyType                     string   `json:"companyType" binding:"required,company_type"`
	ContactName                     string   `json:"contactName" binding:"required"`
	ContactEmail                    string   `json:"contactEmail" binding:"required,email"`
	ServerInformationEndpoint       string   `json:"serverInformationEndpoint" binding:"omitempty,url"`
	KeyForServerInformationEndpoint string   `json:"keyForServerInformationEndpoint"`
	Topics                          []string `json:"topics" binding:"omitempty,dive,lo_topic"`
	CompanyImage                    string   `json:"companyImage"`
	CompanyDescription              string   `json:"companyDescription"`
	CompanyPin                      string   `json:"companyPin"`
}

// UpdateCompanyCommand carries a partial company update; nil fields are untouched
type UpdateCompanyCommand struct {
	CompanyName                     *string   `json:"companyName"`
	CompanyType                     *string   `json:"companyType" binding:"omitempty,company_type"`
	ContactName                     *string   `json:"contactName"`
	ContactEmail                    *string   `json:"contactEmail" binding:"omitempty,email"`
	ServerInformationEndpoint       *string   `json:"serverInformationEndpoint"`
	KeyForServerInformationEndpoint *string   `json:"keyForServerInformationEndpoint"`
	Topics                          *[]string `json:"topics" binding:"omitempty,dive,lo_topic"`
	CompanyImage                    *string   `json:"companyImage"`
	CompanyDescription              *string   `json:"companyDescription"`
	CompanyPin                      *string   `json:"companyPin"`
}

// Fields flattens the command into the set of fields to update
func (c *UpdateCompanyCommand) Fields() map[string]any {
	fields := make(map[string]any)
	set := func(key string, v any, present bool) {
		if present {
			fields[key] = v
		}
	}
	set("companyName", deref(c.CompanyName), c.CompanyName != nil)
	set("companyType", deref(c.CompanyType), c.CompanyType != nil)
	set("contactName", deref(c.ContactName), c.ContactName != nil)
	set("contactEmail", deref(c.ContactEmail), c.ContactEmail != nil)
	set("serverInformationEndpoint", deref(c.ServerInformationEndpoint), c.ServerInformationEndpoint != nil)
	set("keyForServerInformationEndpoint", deref(c.KeyForServerInformationEndpoint), c.KeyForServerInformationEndpoint != nil)
	set("companyImage", deref(c.CompanyImage), c.CompanyImage != nil)
	set("companyDescription", deref(c.CompanyDescription), c.CompanyDescription != nil)
	set("companyPin", deref(c.CompanyPin), c.CompanyPin != nil)
	if c.Topics != nil {
		fields["topics"] = *c.Topics
	}
	return fields
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// InboundRecordView is the projection of a received notification.
// Topic is omitted when listing without a topic filter.
type InboundRecordView struct {
	Lo    domain.Document `json:"lo"`
	Topic string          `json:"topic,omitempty"`
}

// RegisterUserCommand carries a user registration request
type RegisterUserCommand struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
	CompanyPin string `json:"companyPin" binding:"required"`
}

// LoginCommand carries a login request
type LoginCommand struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
