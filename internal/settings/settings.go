package settings

// Settings is the resolved configuration for the application.
type Settings struct {
	Server   ServerSettings   `mapstructure:"server" yaml:"server"`
	Database DatabaseSettings `mapstructure:"database" yaml:"database"`
	Sync     *SyncSettings    `mapstructure:"sync" yaml:"sync,omitempty"`
	Logging  *LoggingSettings `mapstructure:"logging" yaml:"logging,omitempty"`
}

type ServerSettings struct {
	Port uint16 `mapstructure:"port" yaml:"port"`
	// DangerAllowHTTP allows the server to run without TLS.
	DangerAllowHTTP bool `mapstructure:"danger_allow_http,omitempty" yaml:"danger_allow_http"`
	// DebugNoAccessControl disables access control; development only.
	DebugNoAccessControl bool     `mapstructure:"debug_no_access_control,omitempty" yaml:"debug_no_access_control"`
	CORSOrigins          []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	// BaseDir is where the server keeps its data, e.g. the sqlite file or certs.
	BaseDir *string `mapstructure:"base_dir" yaml:"base_dir,omitempty"`
	// MachineUID overrides the machine id on platforms where it cannot be read.
	MachineUID *string `mapstructure:"machine_uid" yaml:"machine_uid,omitempty"`
}

// DatabaseSettings is consumed as-is by the database layer.
type DatabaseSettings struct {
	Username     string  `mapstructure:"username" yaml:"username"`
	Password     string  `mapstructure:"password" yaml:"password"`
	Port         uint16  `mapstructure:"port" yaml:"port"`
	Host         string  `mapstructure:"host" yaml:"host"`
	DatabaseName string  `mapstructure:"database_name" yaml:"database_name"`
	InitSQL      *string `mapstructure:"init_sql" yaml:"init_sql,omitempty"`
	DatabasePath *string `mapstructure:"database_path" yaml:"database_path,omitempty"`
}

type SyncSettings struct {
	URL             string `mapstructure:"url" yaml:"url"`
	Username        string `mapstructure:"username" yaml:"username"`
	PasswordSHA256  string `mapstructure:"password_sha256" yaml:"password_sha256"`
	IntervalSeconds uint64 `mapstructure:"interval_seconds" yaml:"interval_seconds"`
}

type LoggingSettings struct {
	Mode  LogMode `mapstructure:"mode" yaml:"mode"`
	Level Level   `mapstructure:"level" yaml:"level"`
	// Directory and Filename locate the log file for File and All modes.
	Directory *string `mapstructure:"directory" yaml:"directory,omitempty"`
	Filename  *string `mapstructure:"filename" yaml:"filename,omitempty"`
	// MaxFileCount is the number of rotated files to retain.
	MaxFileCount *uint32 `mapstructure:"max_file_count" yaml:"max_file_count,omitempty"`
	// MaxFileSize is in megabytes.
	MaxFileSize *uint64 `mapstructure:"max_file_size" yaml:"max_file_size,omitempty"`
}
