package slider

// Demo returns the slider seeded into an empty store.
func Demo(assetBase string) Slider {
	return Slider{
		Name: "Demo Slider",
		Slides: []Slide{
			{
				Image:          assetBase + "demo1.jpg",
				Title:          "Welcome to Interactive Slider",
				Subtitle:       "Create Amazing Presentations",
				Description:    "Build stunning sliders with smooth micro-interactions and professional animations.",
				ButtonText:     "Get Started",
				ButtonURL:      "#",
				OverlayOpacity: 0.4,
			},
			{
				Image:          assetBase + "demo2.jpg",
				Title:          "Responsive Design",
				Subtitle:       "Works on All Devices",
				Description:    "Your sliders look perfect on desktop, tablet, and mobile devices.",
				ButtonText:     "Learn More",
				ButtonURL:      "#",
				OverlayOpacity: 0.5,
			},
			{
				Image:          assetBase + "demo3.jpg",
				Title:          "Easy to Customize",
				Subtitle:       "No Coding Required",
				Description:    "Simple interface to create professional sliders in minutes.",
				ButtonText:     "Try Now",
				ButtonURL:      "#",
				OverlayOpacity: 0.3,
			},
		},
		Settings: DefaultSettings(),
	}
}
