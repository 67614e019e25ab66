package differ

// ResolveLookupForTest exposes resolveLookup.
var ResolveLookupForTest = resolveLookup
