/*
Package observability exports bench state as Prometheus metrics.

An Exporter subscribes to parameter listeners, so metrics follow every Set,
Reset and violation as it happens, and mirrors node activation and cascade
visits. Register it on a dedicated registry and serve that registry with
promhttp.
*/
package observability
