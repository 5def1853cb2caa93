// Package trips holds the trip record model and its storage access layer.
package trips

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SentinelDate marks a destination date the user declined to provide. The
// search indexes require every record to carry a comparable value for the
// indexed date attribute, so "no date" is stored as this fixed placeholder.
const SentinelDate = "1900-01-01"

// searchShardKey is the constant partition key of both search indexes. Every
// record collides into one logical partition on purpose: month search spans
// all owners, so the range component (the date) is the only discriminator.
// Query cost therefore scales with total trip volume; acceptable while the
// dataset is small.
const searchShardKey = "constant"

// DateFormat is the storage format for destination dates.
const DateFormat = "2006-01-02"

// Destination identifies which leg of a trip a date or search refers to.
type Destination string

const (
	DestinationBelarus Destination = "belarus"
	DestinationSpain   Destination = "spain"
)

// Valid reports whether d is one of the two known destinations.
func (d Destination) Valid() bool {
	return d == DestinationBelarus || d == DestinationSpain
}

// Trip is one registered trip. (OwnerID, TripID) uniquely identifies it.
type Trip struct {
	OwnerID       int64  `dynamodbav:"user_id" json:"user_id"`
	TripID        string `dynamodbav:"trip_id" json:"trip_id"`
	FirstName     string `dynamodbav:"first_name" json:"first_name"`
	ToBelarusDate string `dynamodbav:"to_belarus_date" json:"to_belarus_date"`
	ToSpainDate   string `dynamodbav:"to_spain_date" json:"to_spain_date"`
	Note          string `dynamodbav:"note" json:"note"`
	ShardKey      string `dynamodbav:"dummy_partition_key" json:"-"`
}

// DateFor returns the stored date for the given destination.
func (t Trip) DateFor(dst Destination) string {
	if dst == DestinationBelarus {
		return t.ToBelarusDate
	}
	return t.ToSpainDate
}

// ErrUnavailable reports that the backing store could not serve the request.
// Callers log it and degrade (empty result, "try again" message); it never
// crashes the process.
var ErrUnavailable = errors.New("trips: store unavailable")

// Store is the trip persistence contract. The DynamoDB implementation is
// DynamoStore; MemStore backs tests.
type Store interface {
	// Save upserts the record keyed by (OwnerID, TripID), stamping the
	// search shard key. Saving the same record twice is a no-op.
	Save(ctx context.Context, trip Trip) error

	// Delete removes exactly one record; deleting an absent record is not
	// an error.
	Delete(ctx context.Context, ownerID int64, tripID string) error

	// ListByOwner returns all records of one owner, in an order stable
	// enough for numbered display within one response.
	ListByOwner(ctx context.Context, ownerID int64) ([]Trip, error)

	// SearchByMonth returns every record, across all owners, whose date for
	// the given destination falls within the calendar month.
	SearchByMonth(ctx context.Context, dst Destination, year, month int) ([]Trip, error)
}

// MonthRange returns the inclusive first and last day of a month in storage
// format. The pair bounds the same set of YYYY-MM-DD values as the half-open
// range [first day, first day of next month); December rolls over into
// January of the following year.
func MonthRange(year, month int) (first, last string) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from.Format(DateFormat), to.Format(DateFormat)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
