package querygen

import "github.com/tenantsql/tenantsql/model"

// Test fixtures mirror a small blog-shaped schema: tenant-scoped posts and
// comments, a post/tag junction, and a global teams model.

func testField(name, typ string) model.Field {
	return model.Field{
		Name:     name,
		Column:   name,
		FullName: "tb." + name,
		Type:     typ,
	}
}

func commentModel() *model.Model {
	body := testField("body", model.TextType)
	body.OwnerWrite = true
	postID := testField("post_id", model.BigintType)
	postID.Writable = true

	return &model.Model{
		Name:   "comment",
		Schema: "app",
		Table:  "comments",
		Fields: []model.Field{
			testField("id", model.BigintType),
			body,
			postID,
		},
		BelongsTo: []model.BelongsTo{{Name: "post", Field: "post_id"}},
	}
}

func postModel() *model.Model {
	title := testField("title", model.StringType)
	title.OwnerWrite = true
	authorID := testField("author_id", model.BigintType)
	authorID.Writable = true

	comment := commentModel()
	return &model.Model{
		Name:   "post",
		Schema: "app",
		Table:  "posts",
		Fields: []model.Field{
			testField("id", model.BigintType),
			title,
			authorID,
		},
		BelongsTo: []model.BelongsTo{{Name: "author", Field: "author_id"}},
		Children: []model.Child{{
			Name:        "comments",
			Model:       "comment",
			Schema:      "app",
			Table:       "comments",
			ParentField: "post_id",
			Fields:      comment.ReadableFields(),
			OnGet:       true,
		}},
		References: []model.Reference{{
			Name:   "author",
			Field:  "author_id",
			Schema: "app",
			Table:  "users",
			Fields: []model.Field{testField("name", model.StringType)},
			OnGet:  true,
		}},
		Sort: []model.SortRule{
			{Field: "title", Direction: model.DirAny},
			{Field: "id", Direction: model.DirAsc},
		},
	}
}

func postTagModel() *model.Model {
	return &model.Model{
		Name:   "post_tag",
		Schema: "app",
		Table:  "post_tags",
		Fields: []model.Field{
			testField("post_id", model.BigintType),
			testField("tag_id", model.BigintType),
		},
		Join: &model.Join{ParentFields: [2]string{"post_id", "tag_id"}},
		BelongsTo: []model.BelongsTo{
			{Name: "post", Field: "post_id"},
			{Name: "tag", Field: "tag_id"},
		},
	}
}

func teamModel() *model.Model {
	name := testField("name", model.StringType)
	name.OwnerWrite = true
	name.Writable = true

	return &model.Model{
		Name:   "team",
		Schema: "app",
		Table:  "teams",
		Global: true,
		Fields: []model.Field{
			testField("id", model.BigintType),
			name,
		},
	}
}
