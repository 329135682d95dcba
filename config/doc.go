/*
Package config loads server configuration from POLL_* environment
variables via viper. The in-memory store is the default backend so the
server starts with no external services; POLL_STORE=mongo selects MongoDB
and then requires POLL_MONGO_URI.
*/
package config
