package config

// RemoteServerConf identifies the daemon a remote client talks to.
type RemoteServerConf struct {
	Host string
	Port int
}
