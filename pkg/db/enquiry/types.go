package enquiry

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	STATUS_NEW     = "new"
	STATUS_READ    = "read"
	STATUS_REPLIED = "replied"
)

type Enquiry struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string              `bson:"name" json:"name"`
	Email       string              `bson:"email" json:"email"`
	Phone       string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Product     *primitive.ObjectID `bson:"product,omitempty" json:"product,omitempty"`
	ProductName string              `bson:"productName,omitempty" json:"productName,omitempty"`
	Message     string              `bson:"message" json:"message"`
	Status      string              `bson:"status" json:"status"`
	IPAddress   string              `bson:"ipAddress,omitempty" json:"-"`
	UserAgent   string              `bson:"userAgent,omitempty" json:"-"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

func IsValidStatus(status string) bool {
	return status == STATUS_NEW || status == STATUS_READ || status == STATUS_REPLIED
}

// MonthlyEnquiryCount is one bucket of the dashboard chart.
type MonthlyEnquiryCount struct {
	Month string `bson:"month" json:"month"`
	Total int64  `bson:"total" json:"total"`
	New   int64  `bson:"new" json:"new"`
}
