package salesforce

// Clients groups the service clients sharing one authenticated Client.
type Clients struct {
	REST     *RESTClient
	Metadata *MetadataClient
	Tooling  *ToolingClient
	Audit    *AuditClient
}

// NewClients builds every client for one host and session.
func NewClients(host, sessionID string, opts Options) (*Clients, error) {
	c, err := NewClient(host, sessionID, opts)
	if err != nil {
		return nil, err
	}
	return &Clients{
		REST:     NewRESTClient(c),
		Metadata: NewMetadataClient(c),
		Tooling:  NewToolingClient(c),
		Audit:    NewAuditClient(c),
	}, nil
}
