package attribution

// Curated traffic sources, matched by exact hostname only. Subdomain or
// suffix matching is deliberately absent: an unlisted google hostname is
// still a referral, not organic search.
type knownSource struct {
	label     string
	hostnames []string
}

var knownSources = []knownSource{
	// Search engines
	{"Organic Search: Google", []string{
		"google.com", "www.google.com",
		"google.co.uk", "www.google.co.uk",
		"google.de", "www.google.de",
		"google.fr", "www.google.fr",
		"google.es", "www.google.es",
		"google.it", "www.google.it",
		"google.ca", "www.google.ca",
		"google.com.au", "www.google.com.au",
		"google.co.in", "www.google.co.in",
		"google.com.br", "www.google.com.br",
	}},
	{"Organic Search: Bing", []string{"bing.com", "www.bing.com", "cn.bing.com"}},
	{"Organic Search: Yahoo", []string{"search.yahoo.com", "www.search.yahoo.com"}},
	{"Organic Search: DuckDuckGo", []string{"duckduckgo.com", "www.duckduckgo.com"}},
	{"Organic Search: Ecosia", []string{"ecosia.org", "www.ecosia.org"}},
	{"Organic Search: Brave", []string{"search.brave.com"}},
	{"Organic Search: Startpage", []string{"startpage.com", "www.startpage.com"}},
	{"Organic Search: Baidu", []string{"baidu.com", "www.baidu.com"}},
	{"Organic Search: Yandex", []string{"yandex.ru", "www.yandex.ru", "yandex.com", "www.yandex.com"}},

	// Email providers (newsletter and campaign clicks)
	{"Email: Gmail", []string{"mail.google.com"}},
	{"Email: Outlook", []string{"outlook.live.com", "outlook.office.com", "outlook.office365.com"}},
	{"Email: Yahoo Mail", []string{"mail.yahoo.com"}},
	{"Email: Proton Mail", []string{"mail.proton.me", "protonmail.com", "mail.protonmail.com"}},
	{"Email: AOL Mail", []string{"mail.aol.com"}},
	{"Email: iCloud Mail", []string{"icloud.com", "www.icloud.com"}},
}

var knownSourceIndex = func() map[string]string {

	index := make(map[string]string)

	for _, source := range knownSources {
		for _, hostname := range source.hostnames {
			index[hostname] = source.label
		}
	}

	return index
}()
