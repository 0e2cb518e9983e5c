package sources

import "signalfeed/types"

// Source describes a single configured RSS feed
type Source struct {
	Name        string         `json:"name"`
	URL         string         `json:"url"`
	Reliability int            `json:"reliability"` // 1-5
	Category    types.Category `json:"category"`
	Description string         `json:"description,omitempty"`
}

// Group is the ordered list of sources for one category
type Group struct {
	Category types.Category `json:"category"`
	Sources  []Source       `json:"sources"`
}

// Catalog is an immutable, ordered category -> sources table
type Catalog struct {
	groups []Group
	index  map[types.Category]int
}

// NewCatalog builds a catalog from groups. Each source's Category is
// overwritten with the category of the group it belongs to.
func NewCatalog(groups ...Group) *Catalog {
	c := &Catalog{
		groups: make([]Group, 0, len(groups)),
		index:  make(map[types.Category]int, len(groups)),
	}
	for _, g := range groups {
		srcs := make([]Source, len(g.Sources))
		for i, s := range g.Sources {
			s.Category = g.Category
			srcs[i] = s
		}
		c.index[g.Category] = len(c.groups)
		c.groups = append(c.groups, Group{Category: g.Category, Sources: srcs})
	}
	return c
}

// Categories returns the configured category names in catalog order
func (c *Catalog) Categories() []types.Category {
	out := make([]types.Category, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.Category
	}
	return out
}

// Lookup returns the sources of a category and whether it is configured
func (c *Catalog) Lookup(category types.Category) ([]Source, bool) {
	i, ok := c.index[category]
	if !ok {
		return nil, false
	}
	return append([]Source(nil), c.groups[i].Sources...), true
}

// Groups returns a copy of every group in catalog order
func (c *Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = Group{Category: g.Category, Sources: append([]Source(nil), g.Sources...)}
	}
	return out
}

// Default returns the built-in feed catalogue
func Default() *Catalog {
	return defaultCatalog
}

var defaultCatalog = NewCatalog(
	Group{Category: types.CategoryAI, Sources: []Source{
		{Name: "Hacker News", URL: "https://news.ycombinator.com/rss", Reliability: 4, Description: "Tech community discussions and AI developments"},
		{Name: "O'Reilly Radar", URL: "https://www.oreilly.com/content/feed/", Reliability: 5, Description: "Technology trends and AI insights"},
		{Name: "VentureBeat", URL: "https://venturebeat.com/feed/", Reliability: 4, Description: "AI and technology news"},
	}},
	Group{Category: types.CategoryWeb3, Sources: []Source{
		{Name: "Cointelegraph", URL: "https://cointelegraph.com/rss", Reliability: 5, Description: "Web3 and blockchain developments"},
		{Name: "The Defiant", URL: "https://thedefiant.io/api/feed", Reliability: 5, Description: "DeFi and Web3 news"},
		{Name: "Decrypt", URL: "https://decrypt.co/feed", Reliability: 4, Description: "Web3 and crypto culture"},
	}},
	Group{Category: types.CategoryCrypto, Sources: []Source{
		{Name: "CoinDesk", URL: "https://coindesk.com/arc/outboundfeeds/rss/", Reliability: 5, Description: "Bitcoin and cryptocurrency news"},
		{Name: "Bitcoin Magazine", URL: "https://bitcoinmagazine.com/rss", Reliability: 5, Description: "Bitcoin and blockchain technology"},
		{Name: "NewsBTC", URL: "https://www.newsbtc.com/feed/", Reliability: 4, Description: "Cryptocurrency market analysis"},
	}},
	Group{Category: types.CategoryRobotics, Sources: []Source{
		{Name: "IEEE Spectrum Robotics", URL: "https://spectrum.ieee.org/rss/robotics/fulltext", Reliability: 5, Description: "Advanced robotics research and development"},
		{Name: "The Robot Report", URL: "https://www.therobotreport.com/feed/", Reliability: 4, Description: "Industrial and service robotics news"},
	}},
	Group{Category: types.CategoryARVR, Sources: []Source{
		{Name: "UploadVR", URL: "https://uploadvr.com/feed/", Reliability: 4, Description: "Virtual reality news and reviews"},
		{Name: "Road to VR", URL: "https://www.roadtovr.com/feed/", Reliability: 4, Description: "VR industry analysis and news"},
	}},
	Group{Category: types.CategoryDrones, Sources: []Source{
		{Name: "DroneLife", URL: "https://dronelife.com/feed/", Reliability: 4, Description: "Commercial drone industry news"},
		{Name: "sUAS News", URL: "https://www.suasnews.com/feed/", Reliability: 4, Description: "Unmanned aircraft systems news"},
	}},
	Group{Category: types.CategoryFintech, Sources: []Source{
		{Name: "Bloomberg Markets", URL: "https://feeds.bloomberg.com/markets/news.rss", Reliability: 5, Description: "Financial markets and fintech developments"},
		{Name: "TechCrunch Fintech", URL: "https://techcrunch.com/category/fintech/feed/", Reliability: 4, Description: "Financial technology startups and innovation"},
	}},
	Group{Category: types.CategorySecurity, Sources: []Source{
		{Name: "Krebs on Security", URL: "https://krebsonsecurity.com/feed/", Reliability: 5, Description: "Cybersecurity news and analysis"},
		{Name: "Dark Reading", URL: "https://www.darkreading.com/rss.xml", Reliability: 4, Description: "Enterprise security news"},
	}},
)
