/*
Package domain contains the core vocabulary shared by every testbench package.

It is kept free of I/O and external dependencies so that nodes, parameters and
adapters can all depend on it without cycles.

# Key Entities

  - ErrorKind: The closed failure taxonomy returned by every core operation.
  - Operation: The name of a cascading lifecycle operation (initialize, connect, disconnect).
  - VisitEvent / LifecycleHooks: Observability callbacks fired for each node a cascade visits.
  - Attribute keys: The configuration attribute names the core reads (Used, Info, Units, min, max).
*/
package domain
