package filestore

// Driver identifies the object storage backend.
type Driver string

const (
	DriverMinIO  Driver = "minio"
	DriverS3     Driver = "s3"
	DriverMemory Driver = "memory"
)

// Config holds all settings needed to reach an object storage backend.
type Config struct {
	// Driver is the storage backend (e.g. DriverMinIO).
	Driver Driver `yaml:"driver"`

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO. Optional for AWS S3.
	Endpoint string `yaml:"endpoint"`

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string `yaml:"access_key"`

	// SecretKey is the secret access key.
	SecretKey string `yaml:"secret_key"`

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool `yaml:"use_ssl"`

	// Region is used by region-aware backends (e.g. AWS S3).
	Region string `yaml:"region"`

	// Bucket holds the reference content. Every store call is scoped to it.
	Bucket string `yaml:"bucket"`

	// ForcePathStyle addresses the bucket as a path segment instead of a
	// virtual host. Needed for most S3-compatible servers.
	ForcePathStyle bool `yaml:"force_path_style"`

	// FixturesDir seeds the memory driver from a directory tree.
	FixturesDir string `yaml:"fixtures_dir"`
}

// DefaultConfig returns a sensible local-dev config for MinIO.
func DefaultConfig(endpoint, accessKey, secretKey, bucket string) *Config {
	return &Config{
		Driver:    DriverMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    bucket,
		Region:    "us-east-1",
		UseSSL:    false,
	}
}
