package serverconfig

import "time"

type Config struct {
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Game       GameConfig       `yaml:"game" mapstructure:"game"`
}

type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
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

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// GameConfig 描述一局游戏的规则参数与开局布置。
// 金额一律写成字符串（如 "1500.00"），由 app 层解析成 Money。
type GameConfig struct {
	ID                    string         `yaml:"id" mapstructure:"id"`
	AIPrefix              string         `yaml:"ai_prefix" mapstructure:"ai_prefix"`
	TotalPositions        int            `yaml:"total_positions" mapstructure:"total_positions"`
	SeasonEventChance     float64        `yaml:"season_event_chance" mapstructure:"season_event_chance"`
	SeasonYieldMultiplier float64        `yaml:"season_yield_multiplier" mapstructure:"season_yield_multiplier"`
	PriceMultiplier       float64        `yaml:"price_multiplier" mapstructure:"price_multiplier"`
	TollMultiplier        float64        `yaml:"toll_multiplier" mapstructure:"toll_multiplier"`
	MaxPriceMultiplier    float64        `yaml:"max_price_multiplier" mapstructure:"max_price_multiplier"`
	MaxTollMultiplier     float64        `yaml:"max_toll_multiplier" mapstructure:"max_toll_multiplier"`
	Seed                  int64          `yaml:"seed" mapstructure:"seed"`
	StartDate             string         `yaml:"start_date" mapstructure:"start_date"` // YYYY-MM-DD
	AIPolicy              string         `yaml:"ai_policy" mapstructure:"ai_policy"`
	AIReserve             string         `yaml:"ai_reserve" mapstructure:"ai_reserve"`
	FlushEvery            time.Duration  `yaml:"flush_every" mapstructure:"flush_every"`
	AskTimeout            time.Duration  `yaml:"ask_timeout" mapstructure:"ask_timeout"`
	Players               []PlayerConfig `yaml:"players" mapstructure:"players"`
	Cities                []CityConfig   `yaml:"cities" mapstructure:"cities"`
}

type PlayerConfig struct {
	ID       string `yaml:"id" mapstructure:"id"`
	Money    string `yaml:"money" mapstructure:"money"`
	Position int    `yaml:"position" mapstructure:"position"`
	Policy   string `yaml:"policy" mapstructure:"policy"`
}

type CityConfig struct {
	ID       string `yaml:"id" mapstructure:"id"`
	Name     string `yaml:"name" mapstructure:"name"`
	Region   string `yaml:"region" mapstructure:"region"`
	Price    string `yaml:"price" mapstructure:"price"`
	Toll     string `yaml:"toll" mapstructure:"toll"`
	Position int    `yaml:"position" mapstructure:"position"`
}
