package ahrs

// Vector3 is a single three-axis sensor reading in the body frame.
// Gyroscope readings are in rad/s; accelerometer readings may be in any
// consistent unit because the filter only uses their direction.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is a unit quaternion rotating the sensor frame into the
// reference frame. W is the scalar part, X/Y/Z the vector part (Hamilton
// convention). Consumers must go by field name, not position.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Identity returns the no-rotation quaternion.
func Identity() Quaternion {
	return Quaternion{W: 1}
}
