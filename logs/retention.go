// Package logs provides constructs for CloudWatch Logs retention management.
package logs

// RetentionDays is how long log events are kept before expiring. The zero
// value means logs are kept forever; it is rendered by omitting the
// RetentionInDays property entirely.
type RetentionDays int

// Retention periods accepted by the PutRetentionPolicy API.
const (
	Infinite       RetentionDays = 0
	OneDay         RetentionDays = 1
	ThreeDays      RetentionDays = 3
	FiveDays       RetentionDays = 5
	OneWeek        RetentionDays = 7
	TwoWeeks       RetentionDays = 14
	OneMonth       RetentionDays = 30
	TwoMonths      RetentionDays = 60
	ThreeMonths    RetentionDays = 90
	FourMonths     RetentionDays = 120
	FiveMonths     RetentionDays = 150
	SixMonths      RetentionDays = 180
	OneYear        RetentionDays = 365
	ThirteenMonths RetentionDays = 400
	EighteenMonths RetentionDays = 545
	TwoYears       RetentionDays = 731
	ThreeYears     RetentionDays = 1096
	FiveYears      RetentionDays = 1827
	SixYears       RetentionDays = 2192
	SevenYears     RetentionDays = 2557
	EightYears     RetentionDays = 2922
	NineYears      RetentionDays = 3288
	TenYears       RetentionDays = 3653
)
