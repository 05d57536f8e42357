package browser

import "fmt"

type Pagination struct {
	From  int  `json:"from"`
	To    int  `json:"to"`
	Total int  `json:"total"`
	Page  int  `json:"page"`
	Pages int  `json:"pages"`
	Empty bool `json:"empty"`
}

func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Paginate computes the displayed range [From, To] for a page. A page past
// the end yields From = To = 0 while still reporting the page count.
func Paginate(total, page, limit int) Pagination {
	if total <= 0 || limit <= 0 {
		return Pagination{Page: page, Empty: true}
	}
	p := Pagination{
		Total: total,
		Page:  page,
		Pages: PageCount(total, limit),
	}
	from := (page-1)*limit + 1
	if page >= 1 && from <= total {
		p.From = from
		p.To = min(page*limit, total)
	}
	return p
}

func (p Pagination) String() string {
	if p.Empty {
		return "no records"
	}
	if p.From == 0 {
		return fmt.Sprintf("page %d of %d is empty", p.Page, p.Pages)
	}
	return fmt.Sprintf("%d-%d of %d", p.From, p.To, p.Total)
}
