package predictor

type AlgType string

const (
	AlgTypeLogReg AlgType = "LOGREG"
)

type Config struct {
	Type      AlgType `envconfig:"MLSERVE_PREDICTOR_TYPE" default:"LOGREG"`
	ModelPath string  `envconfig:"MODEL_PATH" default:"models/model.joblib"`
}

func (c Config) PredictorType() AlgType {
	return c.Type
}

func (c Config) PredictorConfig() Config {
	return c
}
