package domain

// Attribute keys read from configuration sub-trees.
const (
	// KeyUsed toggles whether a node takes part in the lifecycle hooks. Default false.
	KeyUsed = "Used"
	// KeyInfo overrides the descriptive text of a node. Default is the node name.
	KeyInfo = "Info"
	// KeyUnits is the measurement unit label of a parameter. Default empty.
	KeyUnits = "Units"
	// KeyMin is the lower bound of a bounded parameter. Default zero value.
	KeyMin = "min"
	// KeyMax is the upper bound of a bounded parameter. Default zero value.
	KeyMax = "max"
)
