package firewall

// Policy selects the firewall's default-match behavior.
type Policy int

const (
	// Blacklist denies on match, allows by default.
	Blacklist Policy = iota
	// Whitelist allows on match, denies by default.
	Whitelist
)

func (p Policy) defaultAction() Decision {
	if p == Blacklist {
		return Allow
	}
	return Deny
}

func (p Policy) matchAction() Decision {
	if p == Blacklist {
		return Deny
	}
	return Allow
}

// Decision is the firewall's verdict on a packet.
type Decision int

const (
	Allow Decision = iota
	Deny
)
