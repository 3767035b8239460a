package telemetry

// Columns is the record layout written by the controller: one line per telemetry
// message, no header.
var Columns = []string{
	"timestamp_ms", "cte", "speed", "steering_angle", "steer_command", "throttle_command",
}

// FieldCount is the number of comma-separated fields in every record.
const FieldCount = 6

// Channel names of the telemetry-derived series.
const (
	ChannelCTE             = "telemetry.cte"
	ChannelSpeed           = "telemetry.speed"
	ChannelSteeringAngle   = "telemetry.steering_angle"
	ChannelSteerCommand    = "telemetry.steer_command"
	ChannelThrottleCommand = "telemetry.throttle_command"
	ChannelAbsCTE          = "telemetry.cte_abs"
	ChannelWindowMeanCTE   = "telemetry.cte_window_mean"
)

// Sample is one telemetry record.
type Sample struct {
	Timestamp       int64
	CrossTrackError float64
	Speed           float64
	SteeringAngle   float64
	SteerCommand    float64
	ThrottleCommand float64
}
