// Package temporalclient loads Temporal client options through the SDK's
// envconfig contrib package, so connection settings come from the
// environment (TEMPORAL_HOST_URL, TEMPORAL_NAMESPACE, TLS settings) or a
// config.toml profile.
package temporalclient

import (
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/envconfig"
)

// LoadClientOptions resolves client options from envconfig, applying the
// given overrides when non-empty.
func LoadClientOptions(hostPortOverride, namespaceOverride string) (client.Options, error) {
	opts, err := envconfig.LoadClientOptions(envconfig.LoadClientOptionsRequest{})
	if err != nil {
		return client.Options{}, err
	}
	if hostPortOverride != "" {
		opts.HostPort = hostPortOverride
	}
	if namespaceOverride != "" {
		opts.Namespace = namespaceOverride
	}
	return opts, nil
}

// MustLoadClientOptions is LoadClientOptions for main() paths; it panics on
// error.
func MustLoadClientOptions(hostPortOverride, namespaceOverride string) client.Options {
	opts, err := LoadClientOptions(hostPortOverride, namespaceOverride)
	if err != nil {
		panic("failed to load Temporal client options: " + err.Error())
	}
	return opts
}
