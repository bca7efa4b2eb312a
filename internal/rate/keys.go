package rate

// UserKey builds the counter identifier for authenticated traffic. One user
// hitting a route from many addresses shares one counter.
func UserKey(username, route string) string {
	return "user:" + username + ":" + route
}

// IPKey builds the counter identifier for anonymous traffic. The "ip:"
// namespace keeps it disjoint from UserKey even when a username happens to
// equal an address string.
func IPKey(ip, route string) string {
	return "ip:" + ip + ":" + route
}
