package predict

type Config struct {
	// NumFeatures is the exact length every sample must have.
	NumFeatures int `envconfig:"MLSERVE_NUM_FEATURES" default:"8"`
}
