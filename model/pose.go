package model

// Pose is a camera pose: a double-precision geocentric anchor plus a
// yaw/pitch/roll orientation in degrees. Pitch follows the wrapped [0,360)
// convention of the rendering layer's rotation representation.
type Pose struct {
	Position Position `json:"position" msgpack:"p"`
	Yaw      float64  `json:"yaw" msgpack:"y"`
	Pitch    float64  `json:"pitch" msgpack:"x"`
	Roll     float64  `json:"roll" msgpack:"r"`
}

// TimedPose is a pose sampled at a point on the session timeline, used by
// the flight recorder and the scripted navigation strategy.
type TimedPose struct {
	T    float64 `json:"t" msgpack:"t"` // seconds since session start
	Pose Pose    `json:"pose" msgpack:"o"`
}
