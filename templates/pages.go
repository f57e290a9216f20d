package templates

import (
	"fmt"

	"quill/database"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

func ErrorBanner(message string) g.Node {
	return g.If(message != "",
		Div(Class("bd-error text-error"), P(g.Text(message))),
	)
}

func HomePage(posts []database.Post, isAdmin bool) g.Node {
	return Div(Class("post-list"),
		H1(g.Text("Latest Posts")),
		g.If(len(posts) == 0,
			P(Em(g.Text("Nothing has been posted yet."))),
		),
		g.Group(g.Map(posts, func(post database.Post) g.Node {
			postURL := fmt.Sprintf("/post/%d", post.ID)
			return Article(Class("post-preview"),
				H2(A(Href(postURL), g.Text(post.Title))),
				H3(Class("subtitle"), g.Text(post.Subtitle)),
				P(Class("meta"),
					Small(g.Textf("Posted by %s on %s", post.Author.Name, post.Date)),
				),
				g.If(isAdmin,
					P(Class("admin-links"),
						A(Href(fmt.Sprintf("/edit-post/%d", post.ID)), g.Text("Edit")),
						g.Text(" · "),
						A(Href(fmt.Sprintf("/delete-post/%d", post.ID)), g.Text("Delete")),
					),
				),
				Hr(),
			)
		})),
	)
}

func AboutPage() g.Node {
	return Div(Class("static-page"),
		H1(g.Text("About Us")),
		P(g.Text("A small corner of the internet where we write about whatever keeps us up at night.")),
		P(g.Text("Everyone can read, registered visitors can join the conversation in the comments.")),
	)
}

func ContactPage() g.Node {
	return Div(Class("static-page"),
		H1(g.Text("Contact")),
		P(g.Text("Have questions or suggestions? We'd love to hear from you.")),
		P(A(Href("mailto:hello@quill.blog"), g.Text("hello@quill.blog"))),
	)
}

func PostPage(post database.Post, signedIn bool) g.Node {
	tags := jsonListToCommaSeparated(post.Tags)
	return Div(Class("post-detail"),
		H1(g.Text(post.Title)),
		H3(Class("subtitle"), g.Text(post.Subtitle)),
		P(Class("meta"),
			Small(g.Textf("Posted by %s on %s", post.Author.Name, post.Date)),
		),
		g.If(post.ImageURL != "",
			Img(Class("cover"), Src(post.ImageURL), Alt(post.Title)),
		),
		Div(Class("post-body"), parseMarkdown(post.Body)),
		g.If(tags != "",
			P(Class("tags"), Small(g.Textf("Tagged: %s", tags))),
		),
		Hr(),
		commentSection(post, signedIn),
	)
}

func commentSection(post database.Post, signedIn bool) g.Node {
	return Section(Class("comments"),
		H4(g.Textf("Comments (%d)", len(post.Comments))),
		g.Group(g.Map(post.Comments, func(comment database.Comment) g.Node {
			return Div(Class("comment"),
				Img(Class("avatar"),
					Src(gravatarURL(comment.Author.Email, comment.Author.AvatarStyle)),
					Alt(comment.Author.Name),
				),
				Div(Class("comment-body"),
					P(Small(Strong(g.Text(comment.Author.Name)))),
					parseMarkdown(comment.Body),
				),
			)
		})),
		g.If(signedIn,
			Form(Class("comment-form"), Action(fmt.Sprintf("/post/%d", post.ID)), Method("post"),
				Label(For("comment"), g.Text("Leave a comment")),
				Textarea(ID("comment"), Name("comment"), Rows("4"), Required()),
				Button(Type("submit"), g.Text("Submit Comment")),
			),
		),
		g.If(!signedIn,
			P(A(Href("/log-in"), g.Text("Log in to leave a comment."))),
		),
	)
}

func RegisterPage(errorMessage string) g.Node {
	return Div(Class("auth-page"),
		H1(g.Text("Register")),
		ErrorBanner(errorMessage),
		Form(Action("/register"), Method("post"),
			Label(For("name"), g.Text("Name")),
			Input(ID("name"), Type("text"), Name("name"), Required()),
			Label(For("email"), g.Text("Email")),
			Input(ID("email"), Type("email"), Name("email"), Required()),
			Label(For("password"), g.Text("Password")),
			Input(ID("password"), Type("password"), Name("password"), Required()),
			Button(Type("submit"), g.Text("Sign Me Up!")),
		),
		P(Small(
			g.Text("Already have an account? "),
			A(Href("/log-in"), g.Text("Log in instead.")),
		)),
	)
}

func LoginPage(email, errorMessage string) g.Node {
	return Div(Class("auth-page"),
		H1(g.Text("Log In")),
		ErrorBanner(errorMessage),
		Form(Action("/log-in"), Method("post"),
			Label(For("email"), g.Text("Email")),
			Input(ID("email"), Type("email"), Name("email"), Value(email), Required()),
			Label(For("password"), g.Text("Password")),
			Input(ID("password"), Type("password"), Name("password"), Required()),
			Button(Type("submit"), g.Text("Log In")),
		),
		P(Small(
			g.Text("No account yet? "),
			A(Href("/register"), g.Text("Register instead.")),
		)),
	)
}

// PostFormPage is shared by the create and edit routes; post is nil when
// creating.
func PostFormPage(action string, post *database.Post, errorMessage string) g.Node {
	var title, subtitle, imageURL, body, tags string
	heading := "New Post"
	if post != nil {
		heading = "Edit Post"
		title = post.Title
		subtitle = post.Subtitle
		imageURL = post.ImageURL
		body = post.Body
		tags = jsonListToCommaSeparated(post.Tags)
	}

	return Div(Class("post-form"),
		H1(g.Text(heading)),
		ErrorBanner(errorMessage),
		Form(Action(action), Method("post"),
			Label(For("title"), g.Text("Title")),
			Input(ID("title"), Type("text"), Name("title"), Value(title), Required()),
			Label(For("subtitle"), g.Text("Subtitle")),
			Input(ID("subtitle"), Type("text"), Name("subtitle"), Value(subtitle)),
			Label(For("img_url"), g.Text("Cover Image URL")),
			Input(ID("img_url"), Type("text"), Name("img_url"), Value(imageURL)),
			Label(For("tags"), g.Text("Tags (comma separated)")),
			Input(ID("tags"), Type("text"), Name("tags"), Value(tags)),
			Label(For("body"), g.Text("Content (markdown)")),
			Textarea(ID("body"), Name("body"), Rows("16"), Required(), g.Text(body)),
			Button(Type("submit"), g.Text("Post!")),
		),
	)
}

func DeleteConfirmPage(post database.Post) g.Node {
	return Div(Class("delete-confirm"),
		H1(g.Text("Delete Post")),
		P(g.Textf("Are you sure you want to delete \"%s\"? Its comments will be removed as well. This cannot be undone.", post.Title)),
		Form(Action(fmt.Sprintf("/delete-post/%d", post.ID)), Method("post"),
			Button(Type("submit"), Class("button error"), g.Text("Delete")),
			g.Text(" "),
			A(Href(fmt.Sprintf("/post/%d", post.ID)), g.Text("Cancel")),
		),
	)
}
