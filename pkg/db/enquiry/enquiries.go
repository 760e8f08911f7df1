package enquiry

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *EnquiryDBService) CreateEnquiry(enquiry Enquiry) (*Enquiry, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	enquiry.Status = STATUS_NEW
	enquiry.CreatedAt = time.Now()
	enquiry.UpdatedAt = time.Now()

	res, err := dbService.collectionEnquiries().InsertOne(ctx, enquiry)
	if err != nil {
		return nil, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.New("could not parse inserted id")
	}
	enquiry.ID = id
	return &enquiry, nil
}

func (dbService *EnquiryDBService) GetEnquiries(status string, page int64, limit int64) (enquiries []Enquiry, total int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	query := bson.M{}
	if status != "" {
		query["status"] = status
	}

	total, err = dbService.collectionEnquiries().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := dbService.collectionEnquiries().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	enquiries = []Enquiry{}
	if err = cursor.All(ctx, &enquiries); err != nil {
		return nil, 0, err
	}
	return enquiries, total, nil
}

func (dbService *EnquiryDBService) UpdateEnquiryStatus(enquiryID string, status string) (*Enquiry, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(enquiryID)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var enquiry Enquiry
	if err := dbService.collectionEnquiries().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		opts,
	).Decode(&enquiry); err != nil {
		return nil, err
	}
	return &enquiry, nil
}

func (dbService *EnquiryDBService) DeleteEnquiry(enquiryID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	id, err := primitive.ObjectIDFromHex(enquiryID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionEnquiries().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount < 1 {
		return errors.New("enquiry not found")
	}
	return nil
}

func (dbService *EnquiryDBService) CountEnquiries(filter bson.M) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionEnquiries().CountDocuments(ctx, filter)
}

func (dbService *EnquiryDBService) GetRecentEnquiries(limit int64) ([]Enquiry, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := dbService.collectionEnquiries().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	enquiries := []Enquiry{}
	if err := cursor.All(ctx, &enquiries); err != nil {
		return nil, err
	}
	return enquiries, nil
}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// GetMonthlyEnquiryCounts groups this year's enquiries by month for the
// dashboard chart. Months without enquiries are zero-filled.
func (dbService *EnquiryDBService) GetMonthlyEnquiryCounts() ([]MonthlyEnquiryCount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	now := time.Now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": yearStart}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"month": bson.M{"$month": "$createdAt"}},
			"count": bson.M{"$sum": 1},
			"newCount": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", STATUS_NEW}}, 1, 0},
			}},
		}}},
	}

	cursor, err := dbService.collectionEnquiries().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buckets []struct {
		ID struct {
			Month int `bson:"month"`
		} `bson:"_id"`
		Count    int64 `bson:"count"`
		NewCount int64 `bson:"newCount"`
	}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}

	chart := make([]MonthlyEnquiryCount, len(monthNames))
	for i, name := range monthNames {
		chart[i] = MonthlyEnquiryCount{Month: name}
		for _, b := range buckets {
			if b.ID.Month == i+1 {
				chart[i].Total = b.Count
				chart[i].New = b.NewCount
			}
		}
	}
	return chart, nil
}
