package main

// NavItem is an anchor in the navbar.
type NavItem struct {
	Name string
	Href string
}

var (
	OwnerFirstName = "Tobi"
	OwnerLastName  = "Daramola"

	HeroTagline = `I specialize in designing efficient hardware-software solutions for
	reliable, scalable, and energy-optimized systems.`

	AboutHeadline = "A power and embedded systems engineer with expertise in machine learning algorithms"

	AboutMe = []string{
		`I have over eight years of experience in the power sector and self-learning, I have garnered skills in
	smart power electronics, FPGAs, machine learning, and energy-aware system design,
	applying research and industry experience to develop reliable and efficient solutions.`,
		`Beyond industry, I am deeply engaged in emerging technologies such as IoT, Embedded Systems, and Machine Learning.
	As a member of COREN, NSE, and IEEE, I remain committed to continuous learning, research, and professional excellence.`,
	}

	GithubURL = "https://github.com/hephzaron"

	NavItems = []NavItem{
		{Name: "Home", Href: "#hero"},
		{Name: "About", Href: "#about"},
		{Name: "Skills", Href: "#skills"},
		{Name: "Projects", Href: "#projects"},
		{Name: "Contact", Href: "#contact"},
	}
)
