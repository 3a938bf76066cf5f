// Package stats aggregates a blog list. Ties resolve to the entry seen
// first.
package stats

import "bloglist/internal/blog/model"

func TotalLikes(blogs []model.Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the blog with the most likes, or nil for an empty list.
func FavoriteBlog(blogs []model.Blog) *model.Blog {
	if len(blogs) == 0 {
		return nil
	}
	fav := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > fav.Likes {
			fav = b
		}
	}
	return &fav
}

func MostBlogs(blogs []model.Blog) *model.AuthorBlogs {
	authors, counts := groupByAuthor(blogs, func(model.Blog) int { return 1 })
	if len(authors) == 0 {
		return nil
	}
	best := authors[0]
	for _, a := range authors[1:] {
		if counts[a] > counts[best] {
			best = a
		}
	}
	return &model.AuthorBlogs{Author: best, Blogs: counts[best]}
}

func MostLikes(blogs []model.Blog) *model.AuthorLikes {
	authors, likes := groupByAuthor(blogs, func(b model.Blog) int { return b.Likes })
	if len(authors) == 0 {
		return nil
	}
	best := authors[0]
	for _, a := range authors[1:] {
		if likes[a] > likes[best] {
			best = a
		}
	}
	return &model.AuthorLikes{Author: best, Likes: likes[best]}
}

func Summarize(blogs []model.Blog) model.Stats {
	return model.Stats{
		TotalLikes:   TotalLikes(blogs),
		FavoriteBlog: FavoriteBlog(blogs),
		MostBlogs:    MostBlogs(blogs),
		MostLikes:    MostLikes(blogs),
	}
}

// groupByAuthor sums weight per author and returns the authors in order of
// first appearance.
func groupByAuthor(blogs []model.Blog, weight func(model.Blog) int) ([]string, map[string]int) {
	var order []string
	sums := make(map[string]int)
	for _, b := range blogs {
		if _, seen := sums[b.Author]; !seen {
			order = append(order, b.Author)
		}
		sums[b.Author] += weight(b)
	}
	return order, sums
}
