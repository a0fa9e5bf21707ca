package spending

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// NoticeLevel is the severity a presentation layer should render a notice with.
type NoticeLevel string

const (
	LevelWarning NoticeLevel = "warning"
	LevelInfo    NoticeLevel = "info"
)

// NoticeKind identifies the condition that produced a notice.
type NoticeKind string

const (
	NoticeEndDateClamped   NoticeKind = "end_date_clamped"
	NoticeStartDateClamped NoticeKind = "start_date_clamped"
	NoticeNoPurchases      NoticeKind = "no_purchases"
	NoticeNoLowSpenders    NoticeKind = "no_low_spenders"
	NoticeNoData           NoticeKind = "no_data"
)

// Notice is a non-fatal condition surfaced alongside the results.
type Notice struct {
	Kind    NoticeKind  `json:"kind"`
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func endDateClamped() Notice {
	return Notice{
		Kind:    NoticeEndDateClamped,
		Level:   LevelWarning,
		Message: "End Date cannot be in the future. Setting End Date to today's date.",
	}
}

func startDateClamped(earliest civil.Date) Notice {
	return Notice{
		Kind:    NoticeStartDateClamped,
		Level:   LevelWarning,
		Message: fmt.Sprintf("Start Date cannot be earlier than %s. Setting Start Date to the earliest available date.", earliest),
	}
}

func noPurchases(customerID string) Notice {
	return Notice{
		Kind:    NoticeNoPurchases,
		Level:   LevelInfo,
		Message: fmt.Sprintf("Customer ID %s does not have any purchases.", customerID),
	}
}

func noLowSpenders() Notice {
	return Notice{
		Kind:    NoticeNoLowSpenders,
		Level:   LevelInfo,
		Message: "No low spenders found.",
	}
}

// NoDataNotice is emitted when the filters leave nothing to display.
func NoDataNotice() Notice {
	return Notice{
		Kind:    NoticeNoData,
		Level:   LevelInfo,
		Message: "No data available for the selected filters.",
	}
}
