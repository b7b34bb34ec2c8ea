package typescript

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/broady/typedwamp/contract"
	"github.com/broady/typedwamp/mapper"
)

// instanceArgument is the first element of every registration argument list.
const instanceArgument = "instance"

const providerSource = `{{if .Export}}export {{end}}class {{.Service}}Provider extends RealmServiceProviderBase implements IContractRealmServiceProvider<{{.Service}}, {{.Service}}Proxy> {
    constructor(session: autobahn.Session) {
        super(session);
    }

    public registerCallee(instance: {{.Service}}): When.Promise<autobahn.IRegistration[]> {
        return super.registerMethodsAsCallee({{.CalleeArguments}});
    }

    registerSubscriber(instance: {{.Service}}): When.Promise<autobahn.ISubscription[]> {
        return super.registerMethodsAsSubscriber({{.SubscriberArguments}});
    }

    getCalleeProxy(): {{.Service}}Proxy {
        return new {{.Service}}ProxyImpl(this._session);
    }
}`

var providerTemplate = template.Must(template.New("provider").Parse(providerSource))

type providerData struct {
	Service             string
	CalleeArguments     string
	SubscriberArguments string
	Export              bool
}

// GenerateProvider renders the service provider class for c.
//
// The class binds an instance of the contract to the {Service}Metadata
// entries of its procedures (registerCallee) and topics
// (registerSubscriber). Methods without a marker appear in neither list.
// When exportModule is set the declaration is prefixed with "export ".
//
// The only failure is a *mapper.UnsupportedKeyTypeError raised while
// mapping a marked method.
func GenerateProvider(m *mapper.Mapper, c *contract.Contract, exportModule bool) (string, error) {
	service, err := serviceName(m, c)
	if err != nil {
		return "", err
	}

	subscriber, err := registrationArguments(m, c, service, contract.MarkerTopic)
	if err != nil {
		return "", err
	}
	callee, err := registrationArguments(m, c, service, contract.MarkerProcedure)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = providerTemplate.Execute(&buf, providerData{
		Service:             service,
		CalleeArguments:     callee,
		SubscriberArguments: subscriber,
		Export:              exportModule,
	})
	if err != nil {
		return "", fmt.Errorf("render provider %s: %w", service, err)
	}
	return buf.String(), nil
}

// registrationArguments joins "instance" and the metadata reference of
// every method of the given kind, in declaration order.
func registrationArguments(m *mapper.Mapper, c *contract.Contract, service string, kind contract.MarkerKind) (string, error) {
	methods, err := m.MapMethods(c, kind)
	if err != nil {
		return "", err
	}

	args := make([]string, 0, len(methods)+1)
	args = append(args, instanceArgument)
	for _, md := range methods {
		args = append(args, metadataRef(service, md.Alias))
	}
	return strings.Join(args, ", "), nil
}

func metadataRef(service, alias string) string {
	return service + "Metadata." + alias
}

// serviceName maps the contract itself through the composite-name path.
func serviceName(m *mapper.Mapper, c *contract.Contract) (string, error) {
	return m.MapType(contract.RefOf(c.Name))
}
