package metadata

import "strings"

// HostKey identifies a connection for deduplication in tooling hosts.
// The server is omitted when it repeats the database name.
func HostKey(c Capabilities) string {
	server := c.ServerName
	if server == c.DatabaseName {
		server = ""
	}
	return joinPresent("_", c.Username, c.DatabaseName, server)
}

// DisplayName labels a connection for users. A configured source name wins;
// otherwise the database name is followed by "user@server" when that differs.
func DisplayName(c Capabilities) string {
	if c.SourceName != "" {
		return c.SourceName
	}
	serverLabel := joinPresent("@", c.Username, c.ServerName)
	if serverLabel == c.DatabaseName {
		return c.DatabaseName
	}
	return joinPresent(" - ", c.DatabaseName, serverLabel)
}

func joinPresent(sep string, parts ...string) string {
	present := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, sep)
}
