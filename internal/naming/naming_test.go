package naming

import "testing"

func TestColumn(t *testing.T) {
	tests := map[string]string{
		"Title":     "title",
		"AuthorID":  "author_id",
		"ID":        "id",
		"CreatedAt": "created_at",
	}
	for in, want := range tests {
		if got := Column(in); got != want {
			t.Errorf("Column(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTable(t *testing.T) {
	tests := map[string]string{
		"Book":     "books",
		"Category": "categories",
		"BookTag":  "book_tags",
	}
	for in, want := range tests {
		if got := Table(in); got != want {
			t.Errorf("Table(%q) = %q, want %q", in, got, want)
		}
	}
}
