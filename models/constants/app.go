package constants

const (
	ExternalName = "PSO2 News"
	Version      = "1.0.0"
)
