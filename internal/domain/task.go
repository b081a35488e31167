package domain

import (
	"errors"
	"math"
	"time"
)

// CurrencyPrecision converts a human-entered reward amount into stored
// minor units: amount 5 is persisted as 500.
const CurrencyPrecision = 100

// MinOptions is the smallest option set a task may be created with.
const MinOptions = 2

var (
	ErrAmountOverflow  = errors.New("amount overflows minor units")
	ErrAmountPrecision = errors.New("amount has sub-minor-unit precision")
)

type Task struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Amount    int64     `db:"amount" json:"amount"` // minor units
	Signature string    `db:"signature" json:"signature"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Option struct {
	ID       int64  `db:"id" json:"id"`
	TaskID   int64  `db:"task_id" json:"task_id"`
	ImageURL string `db:"image_url" json:"image_url"`
}

type Submission struct {
	ID        int64     `db:"id" json:"id"`
	TaskID    int64     `db:"task_id" json:"task_id"`
	OptionID  int64     `db:"option_id" json:"option_id"`
	WorkerID  int64     `db:"worker_id" json:"worker_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OptionResult is one entry of the per-option tally returned to a task owner.
type OptionResult struct {
	Count  int64      `json:"count"`
	Option OptionView `json:"option"`
}

type OptionView struct {
	ImageURL string `json:"image_url"`
}

// ToMinorUnits converts a reward amount in major units into stored minor
// units. Conversion is overflow-checked; fractional sub-units never occur.
func ToMinorUnits(major int64) (int64, error) {
	if major < 0 || major > math.MaxInt64/CurrencyPrecision {
		return 0, ErrAmountOverflow
	}
	return major * CurrencyPrecision, nil
}

// DecimalToMinorUnits converts a decimal reward amount into stored minor
// units. Amounts finer than one minor unit are rejected rather than rounded:
// 5.25 becomes 525, 0.333 is an error.
func DecimalToMinorUnits(major float64) (int64, error) {
	if math.IsNaN(major) || math.IsInf(major, 0) || major < 0 {
		return 0, ErrAmountOverflow
	}
	scaled := major * CurrencyPrecision
	if scaled >= float64(math.MaxInt64) {
		return 0, ErrAmountOverflow
	}
	rounded := math.Round(scaled)
	if math.Abs(scaled-rounded) > 1e-6 {
		return 0, ErrAmountPrecision
	}
	return int64(rounded), nil
}
