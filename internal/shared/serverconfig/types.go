package serverconfig

type Config struct {
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Worker     WorkerConfig     `yaml:"worker" mapstructure:"worker"`
	Game       GameConfig       `yaml:"game" mapstructure:"game"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type WorkerConfig struct {
	IntervalMS  int `yaml:"interval_ms" mapstructure:"interval_ms"`   // 轮询间隔
	BatchSize   int `yaml:"batch_size" mapstructure:"batch_size"`     // 单轮最多认领任务数
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"` // 技术错误最大重试次数
	RetryDelayS int `yaml:"retry_delay_s" mapstructure:"retry_delay_s"`
	LeaseS      int `yaml:"lease_s" mapstructure:"lease_s"` // 认领租约，超时的 Processing 任务重新交付
}

type GameConfig struct {
	Speed    int `yaml:"speed" mapstructure:"speed"`         // 世界倍速，行军/生产时间除以该值
	MapSize  int `yaml:"map_size" mapstructure:"map_size"`   // 地图半径，坐标范围 [-map_size, map_size]
	ServerID int `yaml:"server_id" mapstructure:"server_id"` // snowflake 节点号
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}
