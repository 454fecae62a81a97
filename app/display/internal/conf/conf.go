package conf

type Bootstrap struct {
	Server *Server
	Radar  *Radar
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Radar struct {
	Page        *Page        `json:"page"`
	Store       *Store       `json:"store"`
	Backend     *Backend     `json:"backend"`
	Tools       *Tools       `json:"tools"`
	Portfolio   *Portfolio   `json:"portfolio"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Db          *DB          `json:"db"`
}

type Page struct {
	Url string `json:"url"`
}

type Store struct {
	Provider string  `json:"provider"`
	Badger   *Badger `json:"badger"`
	Redis    *Redis  `json:"redis"`
}

type Badger struct {
	Path string `json:"path"`
}

type Redis struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	Db       int32  `json:"db"`
	Prefix   string `json:"prefix"`
}

type Backend struct {
	Timeout int32 `json:"timeout"`
}

type Tools struct {
	SimDelayMs *int32 `json:"sim_delay_ms"`
	Parallel   bool   `json:"parallel"`
}

type Portfolio struct {
	Source string `json:"source"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type DB struct {
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
