/*
Package config provides typed access to ports.ConfigTree attributes.

Attribute values arrive with whatever type the backing format produced (a YAML
"5" may be an int, a string or a float). The helpers here convert them with
mapstructure's weak typing, so a missing attribute yields its default and a
present attribute that cannot be converted yields domain.MalformedConfig.

	used, err := config.Bool(tree, domain.KeyUsed, false)
	limit, err := config.Value[float64](tree, domain.KeyMax, 0)

	var s Settings
	err := config.Decode(tree, &s)
*/
package config
