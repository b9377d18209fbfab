package mount

// Catalog is the process-wide table of known operations and their handler
// bindings. An operation may have a default handler and any number of
// content-type-specific overrides.
//
// A Catalog is mutable during configuration and must be treated as frozen
// once serving starts; NewCatalogFrom exists so a server can freeze a
// private copy at build time. The request path only calls Resolve and
// IsRegistered.
type Catalog struct {
	// bindings maps operation id -> content type -> handler. The default
	// binding uses the empty content type as its key.
	bindings   map[string]map[string]Handler
	operations map[string]Operation
}

// NewCatalog creates an empty operation catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		bindings:   make(map[string]map[string]Handler),
		operations: make(map[string]Operation),
	}
}

// NewCatalogFrom creates an isolated copy of another catalog. Future
// mutations of either catalog never affect the other; handler values are
// shared.
func NewCatalogFrom(src *Catalog) *Catalog {
	c := NewCatalog()
	if src == nil {
		return c
	}
	for id, byCT := range src.bindings {
		m := make(map[string]Handler, len(byCT))
		for ct, h := range byCT {
			m[ct] = h
		}
		c.bindings[id] = m
	}
	for id, op := range src.operations {
		c.operations[id] = op
	}
	return c
}

// NewStdCatalog creates a catalog with the standard operation set bound
// to the given handlers. Nil handlers leave that operation unbound.
func NewStdCatalog(query, update, gspRead, gspReadWrite Handler) *Catalog {
	c := NewCatalog()
	if query != nil {
		c.Register(Query, "", query)
	}
	if update != nil {
		c.Register(Update, "", update)
	}
	if gspRead != nil {
		c.Register(GraphStoreRead, "", gspRead)
	}
	if gspReadWrite != nil {
		c.Register(GraphStoreReadWrite, "", gspReadWrite)
	}
	return c
}

// Register binds a handler to an operation. An empty contentType sets the
// default binding for the operation; a non-empty contentType sets a
// content-type-specific override. Registering the same (operation,
// contentType) again replaces the prior binding.
func (c *Catalog) Register(op Operation, contentType string, h Handler) {
	byCT, ok := c.bindings[op.ID()]
	if !ok {
		byCT = make(map[string]Handler)
		c.bindings[op.ID()] = byCT
	}
	byCT[contentType] = h
	c.operations[op.ID()] = op
}

// Unregister removes all bindings for the operation, default and
// content-type-specific alike.
func (c *Catalog) Unregister(op Operation) {
	delete(c.bindings, op.ID())
	delete(c.operations, op.ID())
}

// Resolve returns the most specific handler for the operation: an exact
// content-type match first, else the default binding, else not found.
func (c *Catalog) Resolve(op Operation, contentType string) (Handler, bool) {
	byCT, ok := c.bindings[op.ID()]
	if !ok {
		return nil, false
	}
	if contentType != "" {
		if h, ok := byCT[contentType]; ok {
			return h, true
		}
	}
	h, ok := byCT[""]
	return h, ok
}

// HasContentType reports whether the operation has a binding for the
// exact content type. Used by dispatch to sniff an operation from the
// request content type.
func (c *Catalog) HasContentType(op Operation, contentType string) bool {
	if contentType == "" {
		return false
	}
	byCT, ok := c.bindings[op.ID()]
	if !ok {
		return false
	}
	_, ok = byCT[contentType]
	return ok
}

// IsRegistered reports whether the operation has any binding.
func (c *Catalog) IsRegistered(op Operation) bool {
	_, ok := c.bindings[op.ID()]
	return ok
}

// Operations returns the registered operations.
func (c *Catalog) Operations() []Operation {
	out := make([]Operation, 0, len(c.operations))
	for _, op := range c.operations {
		out = append(out, op)
	}
	return out
}
