package env

// Sample represents a single environmental measurement (BMP).
type Sample struct {
	Temperature  float64 `json:"temp_c"`        // °C
	Pressure     float64 `json:"pressure_pa"`   // Pa
	PressureMbar float64 `json:"pressure_mbar"` // 1 mbar = 100 Pa
}
