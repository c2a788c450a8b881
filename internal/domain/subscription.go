package domain

// PeerSubscription holds the callback details a peer server returns when
// asked for its subscription to a topic
type PeerSubscription struct {
	ID                       string   `json:"@id,omitempty"`
	Type                     string   `json:"@type,omitempty"`
	CallbackURL              string   `json:"callbackUrl"`
	Secret                   string   `json:"secret"`
	ContentType              []string `json:"contentType"`
	SubscribeToStatusUpdates bool     `json:"subscribeToStatusUpdates,omitempty"`
	CacheFor                 int      `json:"cacheFor,omitempty"`
}

// PushContentType returns the content type to use when pushing to the peer,
// the first entry of the peer's advertised list
func (s *PeerSubscription) PushContentType() string {
	if len(s.ContentType) == 0 {
		return "application/json"
	}
	return s.ContentType[0]
}
