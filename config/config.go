package config

// Log represents logger specific options
type Log struct {
	Level string `config:"level"`
	Mode  string `config:"mode"`
}

// Server represents http server settings
type Server struct {
	Port int `config:"port"`
}

// Storage represents storage settings
type Storage struct {
	Driver string `config:"driver"`
	DSN    string `config:"dsn" source:"remote"`
}

// Events represents settings of transaction events publishing
type Events struct {
	Driver       string   `config:"driver"`
	KafkaBrokers []string `config:"kafka/brokers"`
	KafkaTopic   string   `config:"kafka/topic"`
	NATSURL      string   `config:"nats/url"`
	NATSSubject  string   `config:"nats/subject"`
}

// Ledger represents ledger service settings
type Ledger struct {
	HistoryMaxLimit int `config:"historyMaxLimit"`
	BcryptCost      int `config:"bcryptCost"`
}

// Client represents settings of the api client
type Client struct {
	BaseURL string `config:"baseURL"`
}

// Config is a toplevel config structure
type Config struct {
	Log     Log     `config:"log"`
	Server  Server  `config:"server"`
	Storage Storage `config:"storage"`
	Events  Events  `config:"events"`
	Ledger  Ledger  `config:"ledger"`
	Client  Client  `config:"client"`
}
