package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Data.CorpusDir == "" {
		cfg.Data.CorpusDir = "./data"
	}
	if cfg.Data.FakeFile == "" {
		cfg.Data.FakeFile = "Fake.csv"
	}
	if cfg.Data.RealFile == "" {
		cfg.Data.RealFile = "True.csv"
	}
	if cfg.Data.Encoding == "" {
		cfg.Data.Encoding = "latin1"
	}
	if cfg.Features.MaxDF == 0 {
		cfg.Features.MaxDF = 0.7
	}
	if cfg.Features.MinDF == 0 {
		cfg.Features.MinDF = 1
	}
	if cfg.Features.MinTokenLength == 0 {
		cfg.Features.MinTokenLength = 2
	}
	if cfg.Features.StopWords == "" {
		cfg.Features.StopWords = "english"
	}
	if cfg.Classifier.C == 0 {
		cfg.Classifier.C = 1.0
	}
	if cfg.Classifier.MaxIter == 0 {
		cfg.Classifier.MaxIter = 1000
	}
	if cfg.Classifier.Tolerance == 0 {
		cfg.Classifier.Tolerance = 1e-4
	}
	if cfg.Classifier.Class0 == "" {
		cfg.Classifier.Class0 = "FAKE"
	}
	if cfg.Classifier.Class1 == "" {
		cfg.Classifier.Class1 = "REAL"
	}
	if cfg.Training.TestSize == 0 {
		cfg.Training.TestSize = 0.2
	}
	if cfg.Training.Seed == 0 {
		cfg.Training.Seed = 42
	}
	if cfg.Artifacts.Backend == "" {
		cfg.Artifacts.Backend = "disk"
	}
	if cfg.Artifacts.ModelDir == "" {
		cfg.Artifacts.ModelDir = "./models"
	}
	if cfg.Artifacts.DatabasePath == "" {
		cfg.Artifacts.DatabasePath = "./models/artifacts.db"
	}
	if cfg.Predict.TopN == 0 {
		cfg.Predict.TopN = 10
	}
	// Multiline defaults to true when unset (nil).
	if cfg.Predict.Multiline == nil {
		t := true
		cfg.Predict.Multiline = &t
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}
