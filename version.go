package osmcsv

var Version string

// buildVersion gets replaced while building with
// go build -ldflags "-X github.com/dublinosm/osmcsv.buildVersion=1234"
var buildVersion string

func init() {
	Version = "0.4.0"
	Version += buildVersion
}
