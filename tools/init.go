package tools

// NewTravelRegistry 一次註冊所有旅遊工具
// 同一份註冊表同時供應 Schema (給各家 LLM) 與工具分派，確保兩邊永遠一致
func NewTravelRegistry(s Searcher) *Registry {
	r := NewRegistry()
	r.Register(NewFlightLinkTool())
	r.Register(NewTicketSearchTool(s))
	r.Register(NewFareCostSearchTool(s))
	r.Register(NewTripCostSearchTool(s))
	r.Register(NewInternetSearchTool(s))
	return r
}
