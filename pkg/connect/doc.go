// Package connect embeds the construction technology catalog in a Go program:
// keyword and assisted search, division grouping, per-session shortlists with
// share links and CSV export, and search history.
//
// Session state lives in memory by default or in Redis/Valkey:
//
//	client, _ := connect.New(ctx, connect.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	res, _ := client.Search(ctx, connect.Query{Text: "layout robot", Categories: []string{"Robotics"}})
//	for _, r := range res.Results {
//	    fmt.Println(r.Score, r.Solution.Name)
//	}
//
//	sel := client.Selection("session-1")
//	_, _ = sel.Toggle(ctx, res.Results[0].Solution.ID)
//	link, _ := sel.ShareLink(ctx, "https://connect.example")
package connect
